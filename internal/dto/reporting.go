package dto

import "time"

// Supported export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// StatementParams defines query parameters for a client statement.
type StatementParams struct {
	From   time.Time `form:"from" binding:"required" time_format:"2006-01-02" time_utc:"1"`
	To     time.Time `form:"to" binding:"required,gtefield=From" time_format:"2006-01-02" time_utc:"1"`
	Format string    `form:"format,default=json" binding:"oneof=json csv xlsx"`
}

// SendStatementRequest asks for a statement to be emailed to a client.
type SendStatementRequest struct {
	ToEmail string    `json:"toEmail" binding:"required,email"`
	From    time.Time `json:"from" binding:"required"`
	To      time.Time `json:"to" binding:"required,gtefield=From"`
}

// PayrollExportParams selects the rendering of a payroll export.
type PayrollExportParams struct {
	Format string `form:"format,default=csv" binding:"oneof=csv xlsx"`
}
