package dto

// ImportOptions opciones de POST /api/companies/import.
type ImportOptions struct {
	UpdateExisting bool `form:"update_existing"`
	DryRun         bool `form:"dry_run"`
}

// ImportResult resumen de la importación. Errors con formato "Linha N: motivo".
type ImportResult struct {
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
	DryRun   bool     `json:"dry_run"`
}
