package domain

import (
	"github.com/shopspring/decimal"
)

// Account is a parent company that operates one or more centers.
type Account struct {
	GlobalLegalName string              `json:"account_global_legal_name"`
	HQCountry       string              `json:"account_hq_country"`
	HQRegion        string              `json:"account_hq_region"`
	HQIndustry      string              `json:"account_hq_industry"`
	HQSubIndustry   string              `json:"account_hq_sub_industry"`
	PrimaryCategory string              `json:"account_primary_category"`
	PrimaryNature   string              `json:"account_primary_nature"`
	NasscomStatus   string              `json:"account_nasscom_status"`
	EmployeesRange  string              `json:"account_hq_employee_range"`
	CenterEmployees string              `json:"account_center_employees_range"`
	RevenueRange    string              `json:"account_hq_revenue_range"`
	Revenue         decimal.NullDecimal `json:"account_hq_revenue"`
	Website         string              `json:"account_hq_website"`
	FirstCenterYear *int                `json:"account_first_center_year,omitempty"`
	Description     string              `json:"account_description"`
}

// HasRevenue reports whether the account carries a revenue figure.
func (a Account) HasRevenue() bool {
	return a.Revenue.Valid
}
