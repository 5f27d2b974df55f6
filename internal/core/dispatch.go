package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bloodhelp-bot/internal/normalize"
	"bloodhelp-bot/internal/observability/metrics"
	"bloodhelp-bot/pkg"
)

// maxDisplayedDonors caps how many matches a requester sees.
const maxDisplayedDonors = 10

// Repo is the slice of the persistence layer the dispatcher needs.
type Repo interface {
	InsertDonor(ctx context.Context, rec pkg.NormalizedRecord) error
	InsertRecipient(ctx context.Context, rec pkg.NormalizedRecord) error
	SearchDonors(ctx context.Context, bloodType, city string) ([]pkg.DonorMatch, error)
}

// Dispatcher turns a completed record into its terminal action:
// registering a donor or recording a request and searching for donors.
// Persistence failures degrade the reply, never the conversation; the
// donor-insert failure is the only one surfaced to the user.
type Dispatcher struct {
	repo      Repo
	logger    *slog.Logger
	metrics   *metrics.IntakeMetrics
	dbTimeout time.Duration
}

// NewDispatcher wires the dispatcher. metrics may be nil.
func NewDispatcher(repo Repo, logger *slog.Logger, m *metrics.IntakeMetrics, dbTimeout time.Duration) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if dbTimeout <= 0 {
		dbTimeout = 10 * time.Second
	}
	return &Dispatcher{repo: repo, logger: logger, metrics: m, dbTimeout: dbTimeout}
}

// Dispatch executes the terminal action for the role and returns the
// reply text. displayName substitutes for a missing requester name.
func (d *Dispatcher) Dispatch(ctx context.Context, role pkg.Role, rec pkg.NormalizedRecord, displayName string) string {
	switch role {
	case pkg.RoleDonor:
		return d.registerDonor(ctx, rec)
	case pkg.RoleRequest:
		return d.handleRequest(ctx, rec, displayName)
	default:
		return FallbackMessage
	}
}

func (d *Dispatcher) registerDonor(ctx context.Context, rec pkg.NormalizedRecord) string {
	insertCtx, cancel := context.WithTimeout(ctx, d.dbTimeout)
	err := d.repo.InsertDonor(insertCtx, rec)
	cancel()
	if err != nil {
		d.logger.Error("donor insert failed", "error", err)
		d.metrics.ObservePersistenceFailure("donor_insert")
		return DonorInsertFailedMessage
	}
	return "✅ Thanks! You're registered as a donor.\n" +
		"Name: " + rec.FullName + "\n" +
		"Group: " + rec.BloodType + "\n" +
		"Phone: " + rec.Phone + "\n" +
		"City:  " + rec.City
}

func (d *Dispatcher) handleRequest(ctx context.Context, rec pkg.NormalizedRecord, displayName string) string {
	if rec.FullName == "" {
		rec.FullName = displayName
	}

	// The request is recorded best-effort; the search proceeds whether
	// or not the insert worked.
	insertCtx, cancel := context.WithTimeout(ctx, d.dbTimeout)
	if err := d.repo.InsertRecipient(insertCtx, rec); err != nil {
		d.logger.Error("recipient insert failed", "error", err)
		d.metrics.ObservePersistenceFailure("recipient_insert")
	}
	cancel()

	searchCtx, cancel := context.WithTimeout(ctx, d.dbTimeout)
	donors, err := d.repo.SearchDonors(searchCtx, rec.BloodType, rec.City)
	cancel()
	if err != nil {
		d.logger.Error("donor search failed", "error", err)
		d.metrics.ObservePersistenceFailure("donor_search")
		donors = nil
	}

	if len(donors) == 0 {
		return fmt.Sprintf("❌ No donors found for %s in %s.\n", rec.BloodType, rec.City) +
			"We'll notify you if someone becomes available. Meanwhile you can place an emergency request here --> " + HandoffURL
	}

	lines := []string{
		fmt.Sprintf("✅ Donors for %s in %s:", rec.BloodType, rec.City),
		"",
	}
	for i, donor := range donors {
		if i == maxDisplayedDonors {
			break
		}
		phone := donor.Phone
		if p, ok := normalize.Phone(donor.Phone); ok {
			phone = p
		}
		lines = append(lines, fmt.Sprintf("%d. %s — %s (%s)", i+1, donor.FullName, phone, donor.City))
	}
	lines = append(lines, "\n📞 Please contact donors directly.")
	return strings.Join(lines, "\n")
}
