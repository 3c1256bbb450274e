package domain

import "strings"

// Prospect is a contact working at an account.
type Prospect struct {
	ID          int64  `json:"id"`
	AccountName string `json:"account_global_legal_name"`
	CenterName  string `json:"center_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Title       string `json:"title"`
	Department  string `json:"department"`
	Level       string `json:"level"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Email       string `json:"email"`
	LinkedIn    string `json:"linkedin_link"`
}

// FullName joins first and last name, skipping blanks.
func (p Prospect) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}
