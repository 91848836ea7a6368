package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo matches the output of SHOW COLUMNS.
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string
	Extra   string
}

type sqliteColumn struct {
	Cid       int
	Name      string
	Type      string
	Notnull   int
	DfltValue *string
	Pk        int
}

// GetTableColumns retrieves the column definitions for a given table. Field
// names and types are lower-cased. A missing sqlite table yields no columns.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo

	if db.Dialector.Name() == DriverSQLite {
		var sqliteCols []sqliteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&sqliteCols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range sqliteCols {
			info := ColumnInfo{
				Field:   strings.ToLower(col.Name),
				Type:    strings.ToLower(col.Type),
				Null:    "YES",
				Default: col.DfltValue,
			}
			if col.Notnull == 1 {
				info.Null = "NO"
			}
			if col.Pk > 0 {
				info.Key = "PRI"
			}
			columns = append(columns, info)
		}
		return columns, nil
	}

	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
		columns[i].Field = strings.ToLower(columns[i].Field)
	}
	return columns, nil
}

// MissingColumns returns the required columns the table does not have, in
// the order given.
func MissingColumns(db *gorm.DB, tableName string, required ...string) ([]string, error) {
	columns, err := GetTableColumns(db, tableName)
	if err != nil {
		return nil, err
	}

	have := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		have[c.Field] = struct{}{}
	}

	var missing []string
	for _, r := range required {
		if _, ok := have[strings.ToLower(r)]; !ok {
			missing = append(missing, r)
		}
	}
	return missing, nil
}
