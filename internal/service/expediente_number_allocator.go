package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"clinic-management-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// FirstExpedienteNumber is handed out when no expediente carries a counter yet.
const FirstExpedienteNumber = "EXP-000001"

var (
	expedienteCounterPattern = regexp.MustCompile(`EXP-(\d+)`)
	nonDigitPattern          = regexp.MustCompile(`\D`)
)

type AllocationSource string

const (
	SourceManual            AllocationSource = "manual"
	SourceSequential        AllocationSource = "sequential"
	SourceCollisionFallback AllocationSource = "collision_fallback"
	SourceErrorFallback     AllocationSource = "error_fallback"
)

// Allocation is an expediente number together with how it was obtained.
type Allocation struct {
	Number string
	Source AllocationSource
}

// Generated reports whether the number was derived rather than typed by a user.
func (a *Allocation) Generated() bool {
	return a.Source != SourceManual
}

// FormatExpedienteNumber renders n as EXP-nnnnnn. Counters above 999999 keep
// all their digits.
func FormatExpedienteNumber(n int64) string {
	return fmt.Sprintf("EXP-%06d", n)
}

// ParseExpedienteNumber extracts the counter from the first EXP-<digits> run
// in s.
func ParseExpedienteNumber(s string) (int64, bool) {
	m := expedienteCounterPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextExpedienteNumber derives the successor of last. An EXP-<digits> run
// wins; otherwise every digit in last is concatenated into the counter, and a
// value without digits counts as zero.
func NextExpedienteNumber(last string) (string, error) {
	var n int64
	if m := expedienteCounterPattern.FindStringSubmatch(last); m != nil {
		v, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return "", fmt.Errorf("parse counter in %q: %w", last, err)
		}
		n = v
	} else if digits := nonDigitPattern.ReplaceAllString(last, ""); digits != "" {
		v, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return "", fmt.Errorf("parse digits in %q: %w", last, err)
		}
		n = v
	}

	if n == math.MaxInt64 {
		return "", fmt.Errorf("counter in %q cannot be incremented", last)
	}
	return FormatExpedienteNumber(n + 1), nil
}

// ExpedienteNumberAllocator picks the number for a new expediente.
type ExpedienteNumberAllocator interface {
	// Allocate returns requested (trimmed) when given and unused, or derives
	// the next sequential number when autoGenerate is set or requested is
	// blank. Only a taken manual number or a failed manual lookup is an error;
	// derivation always yields a number.
	Allocate(ctx context.Context, db *gorm.DB, requested string, autoGenerate bool) (*Allocation, error)
	// Generate runs the derivation path only.
	Generate(ctx context.Context, db *gorm.DB) *Allocation
	// Fallback returns a timestamp based number without touching the store.
	Fallback(source AllocationSource) *Allocation
}

type expedienteNumberAllocator struct {
	log            *logrus.Logger
	expedienteRepo repository.ExpedienteRepository
	metrics        AllocationRecorder
	now            func() time.Time
}

func NewExpedienteNumberAllocator(log *logrus.Logger, expedienteRepo repository.ExpedienteRepository, metrics AllocationRecorder) ExpedienteNumberAllocator {
	return &expedienteNumberAllocator{
		log:            log,
		expedienteRepo: expedienteRepo,
		metrics:        metrics,
		now:            time.Now,
	}
}

func (a *expedienteNumberAllocator) Allocate(ctx context.Context, db *gorm.DB, requested string, autoGenerate bool) (*Allocation, error) {
	number := strings.TrimSpace(requested)
	if autoGenerate || number == "" {
		return a.Generate(ctx, db), nil
	}

	exists, err := a.expedienteRepo.ExistsByNumber(ctx, db, number, 0)
	if err != nil {
		a.log.Warnf("Failed to check expediente number %q: %+v", number, err)
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateExpedienteNumber
	}

	return a.record(&Allocation{Number: number, Source: SourceManual}), nil
}

// Generate reads the latest expediente and the existence of its successor in
// two separate statements. Two concurrent callers can derive the same number;
// the unique index on expedientes.number settles the race at insert time.
func (a *expedienteNumberAllocator) Generate(ctx context.Context, db *gorm.DB) *Allocation {
	latest, err := a.expedienteRepo.FindLatest(ctx, db)
	if err != nil {
		return a.errorFallback(err)
	}

	var last string
	if latest != nil {
		last = latest.Number
	}

	candidate, err := NextExpedienteNumber(last)
	if err != nil {
		return a.errorFallback(err)
	}

	exists, err := a.expedienteRepo.ExistsByNumber(ctx, db, candidate, 0)
	if err != nil {
		return a.errorFallback(err)
	}
	if exists {
		fallback := a.Fallback(SourceCollisionFallback)
		a.log.WithFields(logrus.Fields{
			"candidate": candidate,
			"number":    fallback.Number,
		}).Info("Derived expediente number already taken, using timestamp number")
		return fallback
	}

	return a.record(&Allocation{Number: candidate, Source: SourceSequential})
}

func (a *expedienteNumberAllocator) Fallback(source AllocationSource) *Allocation {
	return a.record(&Allocation{
		Number: fmt.Sprintf("EXP-%d", a.now().UnixMilli()),
		Source: source,
	})
}

func (a *expedienteNumberAllocator) errorFallback(err error) *Allocation {
	fallback := a.Fallback(SourceErrorFallback)
	if errors.Is(err, context.Canceled) {
		a.log.Warnf("Expediente number derivation cancelled, using %s: %+v", fallback.Number, err)
		return fallback
	}
	a.log.WithField("number", fallback.Number).Errorf("Failed to derive expediente number: %+v", err)
	return fallback
}

func (a *expedienteNumberAllocator) record(alloc *Allocation) *Allocation {
	if a.metrics != nil {
		a.metrics.RecordAllocation(string(alloc.Source))
	}
	return alloc
}
