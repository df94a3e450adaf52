package config

const (
	// Configuration file paths
	ConfigPathWeapons = "configs/weapons.json"
)
