// ABOUTME: Client-side identifier generation
// ABOUTME: Uses lexically sortable ULIDs for records created before the backend assigns ids
package models

import "github.com/oklog/ulid/v2"

func NewID() string {
	return ulid.Make().String()
}
