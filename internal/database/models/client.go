package models

import "github.com/google/uuid"

// Client is a customer of an organization. Email and phone are stored as
// age ciphertext; see pkg/crypto.
type Client struct {
	Base
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_clients_org_name,priority:1" json:"organization_id"`
	Name           string    `gorm:"not null;uniqueIndex:idx_clients_org_name,priority:2" json:"name"`
	EmailCipher    *string   `gorm:"column:email_cipher" json:"-"`
	PhoneCipher    *string   `gorm:"column:phone_cipher" json:"-"`

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

func (Client) TableName() string {
	return "clients"
}
