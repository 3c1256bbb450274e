package domain

// Service describes a service line delivered from a center.
type Service struct {
	CenterKey      string `json:"cn_unique_key"`
	AccountName    string `json:"account_global_legal_name"`
	CenterName     string `json:"center_name"`
	PrimaryService string `json:"primary_service"`
	FocusRegion    string `json:"focus_region"`
	ServiceLine    string `json:"service_line"`
	SoftwareVendor string `json:"software_vendor"`
	SoftwareInUse  string `json:"software_in_use"`
}
