// Package seed holds the demo data the application starts with. The
// record store is process-local, so every boot begins from this fixture.
package seed

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/harborline/harborline/internal/auth"
	"github.com/harborline/harborline/internal/ports"
	"github.com/harborline/harborline/internal/pricing"
	"github.com/harborline/harborline/internal/quotations"
	"github.com/harborline/harborline/internal/rates"
	"github.com/harborline/harborline/internal/rbac"
	"github.com/harborline/harborline/internal/schedules"
)

// Ports returns the static port directory.
func Ports() []ports.Port {
	return []ports.Port{
		{Code: "SGSIN", Name: "Singapore", Country: "Singapore"},
		{Code: "CNSHA", Name: "Shanghai", Country: "China"},
		{Code: "CNNGB", Name: "Ningbo", Country: "China"},
		{Code: "HKHKG", Name: "Hong Kong", Country: "Hong Kong"},
		{Code: "MYPKG", Name: "Port Klang", Country: "Malaysia"},
		{Code: "IDJKT", Name: "Jakarta", Country: "Indonesia"},
		{Code: "THLCH", Name: "Laem Chabang", Country: "Thailand"},
		{Code: "VNSGN", Name: "Ho Chi Minh City", Country: "Vietnam"},
		{Code: "INNSA", Name: "Nhava Sheva", Country: "India"},
		{Code: "AEJEA", Name: "Jebel Ali", Country: "United Arab Emirates"},
		{Code: "DEHAM", Name: "Hamburg", Country: "Germany"},
		{Code: "NLRTM", Name: "Rotterdam", Country: "Netherlands"},
		{Code: "BEANR", Name: "Antwerp", Country: "Belgium"},
		{Code: "GBFXT", Name: "Felixstowe", Country: "United Kingdom"},
		{Code: "USLAX", Name: "Los Angeles", Country: "United States"},
		{Code: "USNYC", Name: "New York", Country: "United States"},
		{Code: "AUSYD", Name: "Sydney", Country: "Australia"},
		{Code: "JPTYO", Name: "Tokyo", Country: "Japan"},
		{Code: "KRPUS", Name: "Busan", Country: "South Korea"},
		{Code: "BRSSZ", Name: "Santos", Country: "Brazil"},
	}
}

// ScheduleRates returns the carrier offers the pricing workflows search.
func ScheduleRates() []schedules.ScheduleRate {
	return []schedules.ScheduleRate{
		{ID: "SR-000001", Carrier: "Maersk", Origin: "Singapore", Destination: "Hamburg", VoyageDetails: "AE7 / MV Morten Maersk 412W", BuyRate: money(1250_00), Allocation: 40},
		{ID: "SR-000002", Carrier: "MSC", Origin: "Singapore", Destination: "Hamburg", VoyageDetails: "Lion Service / MSC Ambra 418A", BuyRate: money(1190_00), Allocation: 25},
		{ID: "SR-000003", Carrier: "Hapag-Lloyd", Origin: "Singapore", Destination: "Hamburg", VoyageDetails: "FE4 / Berlin Express 031W", BuyRate: money(1310_00), Allocation: 18},
		{ID: "SR-000004", Carrier: "ONE", Origin: "Shanghai", Destination: "Hamburg", VoyageDetails: "FP1 / ONE Trust 077W", BuyRate: money(1420_00), Allocation: 30},
		{ID: "SR-000005", Carrier: "Evergreen", Origin: "Shanghai", Destination: "Rotterdam", VoyageDetails: "CEM / Ever Given 1021-033W", BuyRate: money(1380_00), Allocation: 50},
		{ID: "SR-000006", Carrier: "CMA CGM", Origin: "Shanghai", Destination: "Rotterdam", VoyageDetails: "FAL1 / Jacques Saade 0FL3GW", BuyRate: money(1355_00), Allocation: 22},
		{ID: "SR-000007", Carrier: "Maersk", Origin: "Ningbo", Destination: "Antwerp", VoyageDetails: "AE10 / Madrid Maersk 409W", BuyRate: money(1460_00), Allocation: 35},
		{ID: "SR-000008", Carrier: "COSCO", Origin: "Hong Kong", Destination: "Felixstowe", VoyageDetails: "AEU3 / COSCO Universe 058W", BuyRate: money(1520_00), Allocation: 28},
		{ID: "SR-000009", Carrier: "MSC", Origin: "Port Klang", Destination: "Jebel Ali", VoyageDetails: "Falcon / MSC Positano 425A", BuyRate: money(640_00), Allocation: 60},
		{ID: "SR-000010", Carrier: "Hapag-Lloyd", Origin: "Jakarta", Destination: "Hamburg", VoyageDetails: "EAX / Jakarta Express 012W", BuyRate: money(1580_00), Allocation: 15},
		{ID: "SR-000011", Carrier: "ONE", Origin: "Laem Chabang", Destination: "Los Angeles", VoyageDetails: "PS5 / ONE Harbour 044E", BuyRate: money(2150_00), Allocation: 20},
		{ID: "SR-000012", Carrier: "Evergreen", Origin: "Ho Chi Minh City", Destination: "New York", VoyageDetails: "NUE / Ever Lucent 0881-025E", BuyRate: money(2480_00), Allocation: 24},
		{ID: "SR-000013", Carrier: "Maersk", Origin: "Busan", Destination: "Los Angeles", VoyageDetails: "TP9 / Maersk Eindhoven 407E", BuyRate: money(1980_00), Allocation: 45},
		{ID: "SR-000014", Carrier: "CMA CGM", Origin: "Tokyo", Destination: "Sydney", VoyageDetails: "NEMO / CMA CGM Amber 0NA7HE", BuyRate: money(1120_00), Allocation: 32},
	}
}

// BuyRates returns the opening buy-rate sheet.
func BuyRates() []rates.CreateBuyRateRequest {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	return []rates.CreateBuyRateRequest{
		{Carrier: "Maersk", Origin: "Singapore", Destination: "Hamburg", Equipment: "40HC", Rate: money(1250_00), ValidFrom: now.AddDate(0, -1, 0), ValidTo: now.AddDate(0, 2, 0)},
		{Carrier: "MSC", Origin: "Singapore", Destination: "Hamburg", Equipment: "40HC", Rate: money(1190_00), ValidFrom: now.AddDate(0, -1, 0), ValidTo: now.AddDate(0, 1, 0)},
		{Carrier: "Evergreen", Origin: "Shanghai", Destination: "Rotterdam", Equipment: "20GP", Rate: money(980_00), ValidFrom: now.AddDate(0, 0, -14), ValidTo: now.AddDate(0, 3, 0)},
		{Carrier: "ONE", Origin: "Laem Chabang", Destination: "Los Angeles", Equipment: "40HC", Rate: money(2150_00), ValidFrom: now, ValidTo: now.AddDate(0, 1, 14)},
	}
}

// Schedules returns the opening sailing list.
func Schedules() []schedules.CreateScheduleRequest {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	return []schedules.CreateScheduleRequest{
		{Carrier: "Maersk", Vessel: "Morten Maersk", Voyage: "412W", Origin: "Singapore", Destination: "Hamburg", ETD: now.AddDate(0, 0, 7), ETA: now.AddDate(0, 0, 35)},
		{Carrier: "MSC", Vessel: "MSC Ambra", Voyage: "418A", Origin: "Singapore", Destination: "Hamburg", ETD: now.AddDate(0, 0, 10), ETA: now.AddDate(0, 0, 39)},
		{Carrier: "Evergreen", Vessel: "Ever Lucent", Voyage: "0881-025E", Origin: "Ho Chi Minh City", Destination: "New York", ETD: now.AddDate(0, 0, 5), ETA: now.AddDate(0, 0, 38)},
		{Carrier: "CMA CGM", Vessel: "CMA CGM Amber", Voyage: "0NA7HE", Origin: "Tokyo", Destination: "Sydney", ETD: now.AddDate(0, 0, 12), ETA: now.AddDate(0, 0, 26)},
	}
}

// Users returns one seeded account per role. Passwords follow the
// "<role>-dev-password" pattern and are hashed at boot; they exist for
// local development only.
func Users() ([]auth.User, error) {
	specs := []struct {
		id       string
		email    string
		name     string
		role     rbac.Role
		password string
	}{
		{"usr-admin", "admin@harborline.test", "Avery Chen", rbac.RoleAdmin, "admin-dev-password"},
		{"usr-sales", "sales@harborline.test", "Priya Nair", rbac.RoleSales, "sales-dev-password"},
		{"usr-ops", "ops@harborline.test", "Jonas Weber", rbac.RoleOperations, "ops-dev-password"},
		{"usr-viewer", "viewer@harborline.test", "Mina Park", rbac.RoleViewer, "viewer-dev-password"},
	}
	users := make([]auth.User, 0, len(specs))
	for _, s := range specs {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash seed password for %s: %w", s.email, err)
		}
		users = append(users, auth.User{
			ID:           s.id,
			Email:        s.email,
			Name:         s.name,
			Role:         s.role,
			PasswordHash: hash,
		})
	}
	return users, nil
}

// Quotations returns the demo pipeline records.
func Quotations() []quotations.CreateQuotationRequest {
	return []quotations.CreateQuotationRequest{
		{
			CustomerName: "Meridian Textiles GmbH",
			POL:          "Singapore",
			POD:          "Hamburg",
			Equipment:    "40HC",
			Volume:       "2 x 40HC",
			Type:         quotations.TypeExport,
			Status:       quotations.StatusDraft,
			Notes:        "Customer asked for weekly departures.",
		},
		{
			CustomerName: "Pacific Components Ltd",
			POL:          "Shanghai",
			POD:          "Rotterdam",
			Equipment:    "20GP",
			Volume:       "1 x 20GP",
			Type:         quotations.TypeExport,
			Status:       quotations.StatusSubmitted,
			BuyRate:      pricing.Ptr(money(1355_00)),
			SellRate:     pricing.Ptr(money(1600_00)),
		},
		{
			CustomerName: "Andes Coffee Importers",
			POL:          "Santos",
			POD:          "New York",
			Equipment:    "40RF",
			Volume:       "3 x 40RF",
			Type:         quotations.TypeCrossTrade,
			Status:       quotations.StatusSubmitted,
			BuyRate:      pricing.Ptr(money(3200_00)),
			SellRate:     pricing.Ptr(money(3750_00)),
		},
	}
}

// Apply loads the quotation, buy-rate and schedule fixtures through
// their services so derived fields and ids are assigned the normal way.
func Apply(ctx context.Context, q *quotations.Service, r *rates.Service, s *schedules.Service) error {
	for _, req := range Quotations() {
		if _, err := q.Create(ctx, req); err != nil {
			return fmt.Errorf("seed quotation: %w", err)
		}
	}
	for _, req := range BuyRates() {
		if _, err := r.Create(ctx, req); err != nil {
			return fmt.Errorf("seed buy rate: %w", err)
		}
	}
	for _, req := range Schedules() {
		if _, err := s.Create(ctx, req); err != nil {
			return fmt.Errorf("seed schedule: %w", err)
		}
	}
	return nil
}

func money(cents int64) pricing.Money {
	return pricing.Money(cents)
}
