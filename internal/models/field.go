// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Field is one named slot of a fixed category. Fields exist only for
// fixed categories; numbered-series categories derive their keys from
// the series pattern instead.
type Field struct {
	CategoryCode string    `json:"category_code"`
	FieldCode    string    `json:"field_code"`
	FieldName    string    `json:"field_name"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
