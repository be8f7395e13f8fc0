// README: Common value types shared across modules.
package types

// ID is a database-assigned identifier (bigserial).
type ID int64

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
