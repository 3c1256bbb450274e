package domain

// Center is a delivery center owned by an account. Key is the center unique key
// shared by functions and services.
type Center struct {
	Key             string   `json:"cn_unique_key"`
	AccountName     string   `json:"account_global_legal_name"`
	Name            string   `json:"center_name"`
	Type            string   `json:"center_type"`
	Focus           string   `json:"center_focus"`
	City            string   `json:"center_city"`
	State           string   `json:"center_state"`
	Country         string   `json:"center_country"`
	Status          string   `json:"center_status"`
	EmployeesRange  string   `json:"center_employees_range"`
	IncYear         *int     `json:"center_inc_year,omitempty"`
	Latitude        *float64 `json:"lat,omitempty"`
	Longitude       *float64 `json:"lng,omitempty"`
	BusinessSegment string   `json:"center_business_segment"`
	Website         string   `json:"center_website"`
}

// Function is a business function performed at a center.
type Function struct {
	CenterKey string `json:"cn_unique_key"`
	Name      string `json:"function_name"`
}
