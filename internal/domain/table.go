package domain

// Table is a physical table identified by the token printed in its QR code.
type Table struct {
	ID     int64
	Name   string
	Token  string
	Active bool
}
