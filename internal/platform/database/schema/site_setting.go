// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SiteSettingTable represents the 'site.setting' table
type SiteSettingTable struct {
	Table       string
	Key         string
	Value       string
	Description string
	UpdatedAt   string
}

var SiteSetting = SiteSettingTable{
	Table:       "site.setting",
	Key:         "key",
	Value:       "value",
	Description: "description",
	UpdatedAt:   "updatedat",
}
