package models

import "time"

// SettingKeySite is the well-known key of the single site settings document.
const SettingKeySite = "site"

type Setting struct {
	Key            string    `bson:"key" json:"-"`
	WebTitle       string    `bson:"webTitle" json:"web_title"`
	WebLogo        string    `bson:"webLogo" json:"web_logo"`
	WebDescription string    `bson:"webDescription" json:"web_description"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
