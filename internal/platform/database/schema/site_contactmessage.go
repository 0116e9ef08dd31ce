// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SiteContactMessageTable represents the 'site.contactmessage' table
type SiteContactMessageTable struct {
	Table     string
	ID        string
	Name      string
	Email     string
	Subject   string
	Message   string
	IsRead    string
	CreatedAt string
}

var SiteContactMessage = SiteContactMessageTable{
	Table:     "site.contactmessage",
	ID:        "id",
	Name:      "name",
	Email:     "email",
	Subject:   "subject",
	Message:   "message",
	IsRead:    "isread",
	CreatedAt: "createdat",
}
