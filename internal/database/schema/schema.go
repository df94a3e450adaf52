package schema

// SchemaSQL contains the full database schema initialization script
const SchemaSQL = `
-- Weapon Catalog Schema

-- 1. Weapon Definitions
-- definition_id is deterministic: deck_type:name:set, computed in Go.
-- Definitions are never deleted, only marked deprecated.
CREATE TABLE IF NOT EXISTS weapon_definitions (
    definition_id TEXT PRIMARY KEY,
    weapon_name VARCHAR(100) NOT NULL,
    weapon_set VARCHAR(100) NOT NULL,
    deck_type VARCHAR(20) NOT NULL CHECK (deck_type IN ('starting', 'regular', 'ultrared')),
    category VARCHAR(10) NOT NULL CHECK (category IN ('melee', 'ranged', 'both')),
    melee_dice INTEGER,
    melee_damage INTEGER,
    ranged_dice INTEGER,
    ranged_damage INTEGER,
    ranged_accuracy INTEGER,
    loud BOOLEAN NOT NULL DEFAULT FALSE,
    two_handed BOOLEAN NOT NULL DEFAULT FALSE,
    single_use BOOLEAN NOT NULL DEFAULT FALSE,
    default_count INTEGER NOT NULL DEFAULT 1,
    metadata_version VARCHAR(50) NOT NULL DEFAULT '',
    deprecated BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (deck_type, weapon_name, weapon_set)
);

-- 2. Card Instances (physical copies)
CREATE TABLE IF NOT EXISTS card_instances (
    instance_id BIGSERIAL PRIMARY KEY,
    definition_id TEXT NOT NULL REFERENCES weapon_definitions(definition_id) ON DELETE RESTRICT,
    copy_index INTEGER NOT NULL CHECK (copy_index >= 1),
    serial TEXT UNIQUE NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (definition_id, copy_index)
);

CREATE INDEX IF NOT EXISTS idx_card_instances_definition ON card_instances (definition_id);

-- 3. Game Sessions
-- The two legacy text columns are retained verbatim after migration.
CREATE TABLE IF NOT EXISTS sessions (
    session_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    session_name VARCHAR(100) NOT NULL,
    active_loadout_text TEXT NOT NULL DEFAULT '',
    backpack_text TEXT NOT NULL DEFAULT '',
    migrated_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- 4. Inventory Items
-- One physical instance occupies at most one slot; indices are contiguous
-- per slot type per session.
CREATE TABLE IF NOT EXISTS inventory_items (
    item_id BIGSERIAL PRIMARY KEY,
    session_id UUID NOT NULL REFERENCES sessions(session_id) ON DELETE CASCADE,
    slot_type VARCHAR(10) NOT NULL CHECK (slot_type IN ('active', 'backpack')),
    slot_index INTEGER NOT NULL CHECK (slot_index >= 0),
    instance_id BIGINT NOT NULL UNIQUE REFERENCES card_instances(instance_id) ON DELETE RESTRICT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (session_id, slot_type, slot_index)
);

CREATE INDEX IF NOT EXISTS idx_inventory_items_session ON inventory_items (session_id);

-- 5. Presets
CREATE TABLE IF NOT EXISTS presets (
    preset_id BIGSERIAL PRIMARY KEY,
    preset_name VARCHAR(100) UNIQUE NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    is_default BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- 6. Customization Records (preset_id NULL = global override)
CREATE TABLE IF NOT EXISTS customization_records (
    record_id BIGSERIAL PRIMARY KEY,
    definition_id TEXT NOT NULL REFERENCES weapon_definitions(definition_id) ON DELETE CASCADE,
    enabled BOOLEAN NOT NULL DEFAULT TRUE,
    count_override INTEGER CHECK (count_override IS NULL OR count_override >= 0),
    priority INTEGER NOT NULL DEFAULT 0,
    preset_id BIGINT REFERENCES presets(preset_id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_customization_records_definition ON customization_records (definition_id);
CREATE INDEX IF NOT EXISTS idx_customization_records_preset ON customization_records (preset_id);

-- 7. Catalog Version (single row)
CREATE TABLE IF NOT EXISTS catalog_versions (
    singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
    last_imported VARCHAR(50) NOT NULL DEFAULT '',
    last_checked_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
