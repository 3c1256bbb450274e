package filter

import (
	"github.com/shopspring/decimal"

	"github.com/rpattn/bidash/internal/domain"
)

func revenue(value int64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromInt(value), Valid: true}
}

func coord(v float64) *float64 {
	return &v
}

func fixtureDataset() *domain.Dataset {
	return &domain.Dataset{
		Accounts: []domain.Account{
			{GlobalLegalName: "Acme Corp", HQCountry: "USA", HQRegion: "Americas", HQIndustry: "Technology", NasscomStatus: "Member", Revenue: revenue(1200)},
			{GlobalLegalName: "Globex", HQCountry: "UK", HQRegion: "EMEA", HQIndustry: "Manufacturing", Revenue: revenue(300)},
			{GlobalLegalName: "Initech", HQCountry: "USA", HQRegion: "Americas", HQIndustry: "Technology"},
			{GlobalLegalName: "Umbrella", HQCountry: "Germany", HQRegion: "EMEA", HQIndustry: "Healthcare", Revenue: revenue(50)},
		},
		Centers: []domain.Center{
			{Key: "C1", AccountName: "Acme Corp", Name: "Acme Bengaluru", Type: "In-house", City: "Bengaluru", Status: "Active", Latitude: coord(12.97), Longitude: coord(77.59)},
			{Key: "C2", AccountName: "Acme Corp", Name: "Acme Pune", Type: "Hybrid", City: "Pune", Status: "Active", Latitude: coord(18.52), Longitude: coord(73.85)},
			{Key: "C3", AccountName: "Globex", Name: "Globex Chennai", Type: "In-house", City: "Chennai", Status: "Active", Latitude: coord(13.08), Longitude: coord(80.27)},
			{Key: "C4", AccountName: "Initech", Name: "Initech Hyderabad", Type: "In-house", City: "Hyderabad", Status: "Upcoming"},
			{Key: "C5", AccountName: "Umbrella", Name: "Umbrella Pune", Type: "Outsourced", City: "pune", Status: "Active"},
		},
		Functions: []domain.Function{
			{CenterKey: "C1", Name: "IT"},
			{CenterKey: "C1", Name: "Finance"},
			{CenterKey: "C2", Name: "HR"},
			{CenterKey: "C3", Name: "IT"},
			{CenterKey: "C4", Name: "Engineering"},
			{CenterKey: "C5", Name: "Finance"},
		},
		Services: []domain.Service{
			{CenterKey: "C1", AccountName: "Acme Corp", PrimaryService: "Software Development", SoftwareInUse: "SAP, Salesforce"},
			{CenterKey: "C2", AccountName: "Acme Corp", PrimaryService: "Finance & Accounting", SoftwareInUse: "Oracle"},
			{CenterKey: "C3", AccountName: "Globex", PrimaryService: "Software Development", SoftwareInUse: "Workday"},
			{CenterKey: "C4", AccountName: "Initech", PrimaryService: "Analytics", SoftwareInUse: "Tableau"},
		},
		Prospects: []domain.Prospect{
			{ID: 1, AccountName: "Acme Corp", Department: "IT", Level: "Director", Title: "Director of Engineering"},
			{ID: 2, AccountName: "Acme Corp", Department: "Finance", Level: "VP", Title: "VP Finance"},
			{ID: 3, AccountName: "Globex", Department: "IT", Level: "Manager", Title: "IT Manager"},
			{ID: 4, AccountName: "Umbrella", Department: "HR", Level: "CXO", Title: "Chief People Officer"},
			{ID: 5, AccountName: "Initech", Department: "IT", Level: "VP", Title: "VP Technology"},
		},
	}
}

func accountNames(accounts []*domain.Account) []string {
	out := make([]string, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.GlobalLegalName)
	}
	return out
}

func centerKeys(centers []*domain.Center) []string {
	out := make([]string, 0, len(centers))
	for _, c := range centers {
		out = append(out, c.Key)
	}
	return out
}

func serviceCenters(services []*domain.Service) []string {
	out := make([]string, 0, len(services))
	for _, s := range services {
		out = append(out, s.CenterKey)
	}
	return out
}

func prospectIDs(prospects []*domain.Prospect) []int64 {
	out := make([]int64, 0, len(prospects))
	for _, p := range prospects {
		out = append(out, p.ID)
	}
	return out
}

// paddedDataset carries blank and whitespace-padded facet values.
func paddedDataset() *domain.Dataset {
	return &domain.Dataset{
		Accounts: []domain.Account{
			{GlobalLegalName: "Acme Corp", HQCountry: " usa ", HQIndustry: "Technology"},
			{GlobalLegalName: "Globex", HQCountry: "USA", HQIndustry: "technology "},
			{GlobalLegalName: "Initech", HQCountry: "", HQIndustry: "  "},
			{GlobalLegalName: "Umbrella", HQCountry: "Germany", HQIndustry: "Healthcare"},
		},
		Centers: []domain.Center{
			{Key: "K1", AccountName: "Acme Corp", City: " Pune"},
			{Key: "K2", AccountName: "Globex", City: "pune "},
			{Key: "K3", AccountName: "Initech", City: ""},
			{Key: "K4", AccountName: "Umbrella", City: "Berlin"},
		},
	}
}
