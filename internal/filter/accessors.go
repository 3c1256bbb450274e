package filter

import "github.com/rpattn/bidash/internal/domain"

var accountFacets = map[domain.Dimension]func(*domain.Account) string{
	domain.DimensionAccountCountries:       func(a *domain.Account) string { return a.HQCountry },
	domain.DimensionAccountRegions:         func(a *domain.Account) string { return a.HQRegion },
	domain.DimensionAccountIndustries:      func(a *domain.Account) string { return a.HQIndustry },
	domain.DimensionAccountSubIndustries:   func(a *domain.Account) string { return a.HQSubIndustry },
	domain.DimensionAccountCategories:      func(a *domain.Account) string { return a.PrimaryCategory },
	domain.DimensionAccountNatures:         func(a *domain.Account) string { return a.PrimaryNature },
	domain.DimensionAccountNasscomStatuses: func(a *domain.Account) string { return a.NasscomStatus },
	domain.DimensionAccountEmployeesRanges: func(a *domain.Account) string { return a.EmployeesRange },
	domain.DimensionAccountCenterEmployees: func(a *domain.Account) string { return a.CenterEmployees },
}

var centerFacets = map[domain.Dimension]func(*domain.Center) string{
	domain.DimensionCenterTypes:     func(c *domain.Center) string { return c.Type },
	domain.DimensionCenterFocus:     func(c *domain.Center) string { return c.Focus },
	domain.DimensionCenterCities:    func(c *domain.Center) string { return c.City },
	domain.DimensionCenterStates:    func(c *domain.Center) string { return c.State },
	domain.DimensionCenterCountries: func(c *domain.Center) string { return c.Country },
	domain.DimensionCenterEmployees: func(c *domain.Center) string { return c.EmployeesRange },
	domain.DimensionCenterStatuses:  func(c *domain.Center) string { return c.Status },
}

var functionFacets = map[domain.Dimension]func(*domain.Function) string{
	domain.DimensionFunctionNames: func(f *domain.Function) string { return f.Name },
}

var serviceFacets = map[domain.Dimension]func(*domain.Service) string{
	domain.DimensionServicePrimaryServices: func(s *domain.Service) string { return s.PrimaryService },
	domain.DimensionServiceFocusRegions:    func(s *domain.Service) string { return s.FocusRegion },
	domain.DimensionServiceLines:           func(s *domain.Service) string { return s.ServiceLine },
	domain.DimensionServiceVendors:         func(s *domain.Service) string { return s.SoftwareVendor },
}

var prospectFacets = map[domain.Dimension]func(*domain.Prospect) string{
	domain.DimensionProspectDepartments: func(p *domain.Prospect) string { return p.Department },
	domain.DimensionProspectLevels:      func(p *domain.Prospect) string { return p.Level },
	domain.DimensionProspectCities:      func(p *domain.Prospect) string { return p.City },
	domain.DimensionProspectCountries:   func(p *domain.Prospect) string { return p.Country },
}
