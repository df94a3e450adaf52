package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nvalden/arsenal/internal/domain"
)

// uniqueViolationCode is the PostgreSQL error code for unique constraint violations.
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// scanRecord reads one customization_records row (in recordColumns order).
func scanRecord(row pgx.Row) (*domain.CustomizationRecord, error) {
	var (
		rec      domain.CustomizationRecord
		override pgtype.Int4
		presetID pgtype.Int8
	)

	err := row.Scan(&rec.ID, &rec.DefinitionID, &rec.Enabled, &override, &rec.Priority, &presetID, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}

	rec.CountOverride = int4ToIntPtr(override)
	rec.PresetID = int8ToInt64Ptr(presetID)
	return &rec, nil
}

// prefixedDefinitionColumns is definitionColumns qualified for joins against
// the wd alias.
const prefixedDefinitionColumns = `wd.definition_id, wd.weapon_name, wd.weapon_set, wd.deck_type, wd.category,
	wd.melee_dice, wd.melee_damage, wd.ranged_dice, wd.ranged_damage, wd.ranged_accuracy,
	wd.loud, wd.two_handed, wd.single_use, wd.default_count, wd.metadata_version, wd.deprecated,
	wd.created_at, wd.updated_at`

// scanItem reads one inventory item row joined with its instance and
// definition (in itemQuery column order).
func scanItem(row pgx.Row) (*domain.InventoryItem, error) {
	var (
		item       domain.InventoryItem
		slotType   string
		inst       domain.CardInstance
		def        domain.WeaponDefinition
		deckType   string
		category   string
		meleeDice  pgtype.Int4
		meleeDmg   pgtype.Int4
		rangedDice pgtype.Int4
		rangedDmg  pgtype.Int4
		rangedAcc  pgtype.Int4
	)

	err := row.Scan(
		&item.ID, &item.SessionID, &slotType, &item.SlotIndex, &item.InstanceID, &item.CreatedAt,
		&inst.ID, &inst.DefinitionID, &inst.CopyIndex, &inst.Serial, &inst.CreatedAt,
		&def.ID, &def.Name, &def.Set, &deckType, &category,
		&meleeDice, &meleeDmg, &rangedDice, &rangedDmg, &rangedAcc,
		&def.Abilities.Loud, &def.Abilities.TwoHanded, &def.Abilities.SingleUse,
		&def.DefaultCount, &def.MetadataVersion, &def.Deprecated,
		&def.CreatedAt, &def.UpdatedAt)
	if err != nil {
		return nil, err
	}

	item.SlotType = domain.SlotType(slotType)
	def.DeckType = domain.DeckType(deckType)
	def.Category = domain.Category(category)
	if meleeDice.Valid {
		def.Melee = &domain.MeleeStats{Dice: int(meleeDice.Int32), Damage: int(meleeDmg.Int32)}
	}
	if rangedDice.Valid {
		def.Ranged = &domain.RangedStats{
			Dice:     int(rangedDice.Int32),
			Damage:   int(rangedDmg.Int32),
			Accuracy: int(rangedAcc.Int32),
		}
	}
	inst.Definition = &def
	item.Instance = &inst

	return &item, nil
}

// scanDefinition reads one weapon_definitions row (in definitionColumns order)
// and reassembles the category payloads.
func scanDefinition(row pgx.Row) (*domain.WeaponDefinition, error) {
	var (
		def        domain.WeaponDefinition
		deckType   string
		category   string
		meleeDice  pgtype.Int4
		meleeDmg   pgtype.Int4
		rangedDice pgtype.Int4
		rangedDmg  pgtype.Int4
		rangedAcc  pgtype.Int4
	)

	err := row.Scan(
		&def.ID, &def.Name, &def.Set, &deckType, &category,
		&meleeDice, &meleeDmg, &rangedDice, &rangedDmg, &rangedAcc,
		&def.Abilities.Loud, &def.Abilities.TwoHanded, &def.Abilities.SingleUse,
		&def.DefaultCount, &def.MetadataVersion, &def.Deprecated,
		&def.CreatedAt, &def.UpdatedAt)
	if err != nil {
		return nil, err
	}

	def.DeckType = domain.DeckType(deckType)
	def.Category = domain.Category(category)

	if meleeDice.Valid {
		def.Melee = &domain.MeleeStats{
			Dice:   int(meleeDice.Int32),
			Damage: int(meleeDmg.Int32),
		}
	}
	if rangedDice.Valid {
		def.Ranged = &domain.RangedStats{
			Dice:     int(rangedDice.Int32),
			Damage:   int(rangedDmg.Int32),
			Accuracy: int(rangedAcc.Int32),
		}
	}

	return &def, nil
}

// statParams flattens the category payloads to nullable insert parameters.
func statParams(def *domain.WeaponDefinition) (meleeDice, meleeDmg, rangedDice, rangedDmg, rangedAcc pgtype.Int4) {
	if def.Melee != nil {
		meleeDice = pgtype.Int4{Int32: int32(def.Melee.Dice), Valid: true}
		meleeDmg = pgtype.Int4{Int32: int32(def.Melee.Damage), Valid: true}
	}
	if def.Ranged != nil {
		rangedDice = pgtype.Int4{Int32: int32(def.Ranged.Dice), Valid: true}
		rangedDmg = pgtype.Int4{Int32: int32(def.Ranged.Damage), Valid: true}
		rangedAcc = pgtype.Int4{Int32: int32(def.Ranged.Accuracy), Valid: true}
	}
	return
}

// intPtrToInt4 converts an optional count override to a nullable parameter.
func intPtrToInt4(v *int) pgtype.Int4 {
	if v == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*v), Valid: true}
}

// int4ToIntPtr converts a nullable column back to an optional int.
func int4ToIntPtr(v pgtype.Int4) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int32)
	return &n
}

// int8ToInt64Ptr converts a nullable bigint column back to an optional id.
func int8ToInt64Ptr(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

// int64PtrToInt8 converts an optional id to a nullable parameter.
func int64PtrToInt8(v *int64) pgtype.Int8 {
	if v == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *v, Valid: true}
}
