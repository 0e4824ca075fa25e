package models

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bharatbus/bharatbus-backend/internal/utils"
)

// Agent verification statuses
const (
	AgentStatusPending  = "PENDING"
	AgentStatusVerified = "VERIFIED"
	AgentStatusRejected = "REJECTED"
)

// BankDetails holds the settlement account of an agent.
type BankDetails struct {
	AccountNumber     string `json:"accountNumber"`
	AccountHolderName string `json:"accountHolderName"`
	IFSC              string `json:"ifsc"`
	BankName          string `json:"bankName"`
	BranchName        string `json:"branchName"`
}

// Address is the registered business address of an agent.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Pincode string `json:"pincode"`
}

// AgentDocument is one uploaded compliance document (RC, GST cert, ...).
type AgentDocument struct {
	gorm.Model `json:"-"`

	AgentID    uint      `json:"-" gorm:"index"`
	Type       string    `json:"type"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Agent is a one-to-one extension of a User holding company, banking and
// compliance fields. A user has at most one agent profile.
type Agent struct {
	gorm.Model

	AgentID            string          `json:"agent_id" gorm:"uniqueIndex"`
	UserID             string          `json:"user_id" gorm:"uniqueIndex"`
	CompanyName        string          `json:"companyName"`
	GST                string          `json:"gst"`
	BankDetails        BankDetails     `json:"bankDetails" gorm:"embedded;embeddedPrefix:bank_"`
	SupportContact     string          `json:"supportContact"`
	Address            Address         `json:"address" gorm:"embedded;embeddedPrefix:addr_"`
	VerificationStatus string          `json:"verificationStatus" gorm:"default:PENDING"`
	Documents          []AgentDocument `json:"documents" gorm:"foreignKey:AgentID"`
	IsActive           bool            `json:"isActive" gorm:"default:true"`
}

// BeforeCreate hook to auto-generate AgentID and normalize identifiers
func (a *Agent) BeforeCreate(tx *gorm.DB) error {
	if a.AgentID == "" {
		a.AgentID = utils.GenerateSecureID("AGT")
	}
	a.GST = strings.ToUpper(strings.TrimSpace(a.GST))
	a.BankDetails.IFSC = strings.ToUpper(strings.TrimSpace(a.BankDetails.IFSC))
	if a.VerificationStatus == "" {
		a.VerificationStatus = AgentStatusPending
	}
	return nil
}

// AgentProfileRequest is the payload for completing an agent profile.
type AgentProfileRequest struct {
	CompanyName    string      `json:"companyName"`
	GST            string      `json:"gst"`
	BankDetails    BankDetails `json:"bankDetails"`
	SupportContact string      `json:"supportContact"`
	Address        Address     `json:"address"`
}

// Validate checks the required agent profile fields.
func (r *AgentProfileRequest) Validate() error {
	if r.CompanyName == "" || r.GST == "" || r.SupportContact == "" {
		return &ValidationError{Details: "companyName, gst and supportContact are required"}
	}
	if len(r.CompanyName) < 2 || len(r.CompanyName) > 100 {
		return &ValidationError{Details: "companyName must be between 2 and 100 characters"}
	}
	if r.BankDetails.AccountNumber == "" || r.BankDetails.IFSC == "" || r.BankDetails.BankName == "" {
		return &ValidationError{Details: "bank accountNumber, ifsc and bankName are required"}
	}
	if r.Address.City == "" || r.Address.State == "" || r.Address.Pincode == "" {
		return &ValidationError{Details: "address city, state and pincode are required"}
	}
	return nil
}
