// internal/app/store/dashboard/dashstore.go
package dashstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/reliefhub/internal/app/system/scope"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// Store is the read model behind the dashboard. It aggregates across
// the operational collections; every query takes a scope.Scope and
// never returns rows outside it.
type Store struct {
	applications  *mongo.Collection
	beneficiaries *mongo.Collection
	payments      *mongo.Collection
	programs      *mongo.Collection
}

// New creates a dashboard store over the operational collections.
func New(db *mongo.Database) *Store {
	return &Store{
		applications:  db.Collection("aid_applications"),
		beneficiaries: db.Collection("beneficiaries"),
		payments:      db.Collection("payments"),
		programs:      db.Collection("aid_programs"),
	}
}

// ApplicationCounts breaks applications down by status.
type ApplicationCounts struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Disbursed int64 `json:"disbursed"`
}

// PaymentSummary breaks payments down by status with amounts.
type PaymentSummary struct {
	Total           int64   `json:"total"`
	Completed       int64   `json:"completed"`
	Pending         int64   `json:"pending"`
	Failed          int64   `json:"failed"`
	TotalAmount     float64 `json:"total_amount"`
	CompletedAmount float64 `json:"completed_amount"`
}

// ProgramSummary summarizes active programs and their budgets.
type ProgramSummary struct {
	Active      int64   `json:"active"`
	BudgetTotal float64 `json:"budget_total"`
	BudgetSpent float64 `json:"budget_spent"`
	Utilization float64 `json:"utilization"`
}

// Overview is the scoped headline block of the dashboard.
type Overview struct {
	Applications  ApplicationCounts `json:"applications"`
	Beneficiaries int64             `json:"beneficiaries"`
	Payments      PaymentSummary    `json:"payments"`
	Programs      ProgramSummary    `json:"programs"`
}

// Overview computes the headline numbers within the caller's scope.
func (s *Store) Overview(ctx context.Context, sc scope.Scope) (*Overview, error) {
	out := &Overview{}

	if err := s.applicationCounts(ctx, sc, &out.Applications); err != nil {
		return nil, fmt.Errorf("application counts: %w", err)
	}

	n, err := s.beneficiaries.CountDocuments(ctx, sc.Apply(bson.M{}))
	if err != nil {
		return nil, fmt.Errorf("beneficiary count: %w", err)
	}
	out.Beneficiaries = n

	if err := s.paymentSummary(ctx, sc, &out.Payments); err != nil {
		return nil, fmt.Errorf("payment summary: %w", err)
	}
	if err := s.programSummary(ctx, sc, &out.Programs); err != nil {
		return nil, fmt.Errorf("program summary: %w", err)
	}
	return out, nil
}

func (s *Store) applicationCounts(ctx context.Context, sc scope.Scope, out *ApplicationCounts) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: sc.Apply(bson.M{})}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := s.applications.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return err
	}
	for _, r := range rows {
		out.Total += r.Count
		switch r.Status {
		case models.ApplicationPending:
			out.Pending = r.Count
		case models.ApplicationApproved:
			out.Approved = r.Count
		case models.ApplicationRejected:
			out.Rejected = r.Count
		case models.ApplicationDisbursed:
			out.Disbursed = r.Count
		}
	}
	return nil
}

func (s *Store) paymentSummary(ctx context.Context, sc scope.Scope, out *PaymentSummary) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: sc.Apply(bson.M{})}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":    "$status",
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$amount"},
		}}},
	}
	cur, err := s.payments.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	var rows []struct {
		Status string  `bson:"_id"`
		Count  int64   `bson:"count"`
		Amount float64 `bson:"amount"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return err
	}
	for _, r := range rows {
		out.Total += r.Count
		out.TotalAmount += r.Amount
		switch r.Status {
		case models.PaymentCompleted:
			out.Completed = r.Count
			out.CompletedAmount = r.Amount
		case models.PaymentPending:
			out.Pending = r.Count
		case models.PaymentFailed:
			out.Failed = r.Count
		}
	}
	return nil
}

func (s *Store) programSummary(ctx context.Context, sc scope.Scope, out *ProgramSummary) error {
	// Programs carry only an area (no district). A program without an
	// area runs everywhere, so it is in scope for every caller.
	filter := bson.M{"status": "active"}
	if sc.Area != "" {
		filter["area"] = bson.M{"$in": bson.A{sc.Area, "", nil}}
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"total": bson.M{"$sum": "$budget.total"},
			"spent": bson.M{"$sum": "$budget.spent"},
		}}},
	}
	cur, err := s.programs.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	var rows []struct {
		Count int64   `bson:"count"`
		Total float64 `bson:"total"`
		Spent float64 `bson:"spent"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return err
	}
	if len(rows) > 0 {
		out.Active = rows[0].Count
		out.BudgetTotal = rows[0].Total
		out.BudgetSpent = rows[0].Spent
		b := models.Budget{Total: rows[0].Total, Spent: rows[0].Spent}
		out.Utilization = b.Utilization()
	}
	return nil
}

// RecentApplications returns the latest submissions within scope.
func (s *Store) RecentApplications(ctx context.Context, sc scope.Scope, limit int64) ([]models.AidApplication, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "submitted_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cur, err := s.applications.Find(ctx, sc.Apply(bson.M{}), opts)
	if err != nil {
		return nil, err
	}
	var out []models.AidApplication
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentPayments returns the latest payments within scope.
func (s *Store) RecentPayments(ctx context.Context, sc scope.Scope, limit int64) ([]models.Payment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cur, err := s.payments.Find(ctx, sc.Apply(bson.M{}), opts)
	if err != nil {
		return nil, err
	}
	var out []models.Payment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MonthlyPoint is one month of dashboard trend data. Months with no
// activity are present with zeros so charts stay continuous.
type MonthlyPoint struct {
	Month        string  `json:"month"` // YYYY-MM
	Applications int64   `json:"applications"`
	Approved     int64   `json:"approved"`
	Payments     int64   `json:"payments"`
	Amount       float64 `json:"amount"`
}

// MonthlyTrends returns per-month application and payment activity for
// the trailing window, oldest month first. months defaults to 6 and is
// capped at 24.
func (s *Store) MonthlyTrends(ctx context.Context, sc scope.Scope, months int) ([]MonthlyPoint, error) {
	if months <= 0 {
		months = 6
	}
	if months > 24 {
		months = 24
	}

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(months - 1), 0)

	points := make(map[string]*MonthlyPoint, months)
	order := make([]string, 0, months)
	for i := 0; i < months; i++ {
		m := start.AddDate(0, i, 0).Format("2006-01")
		points[m] = &MonthlyPoint{Month: m}
		order = append(order, m)
	}

	appRows, err := s.monthlyApplications(ctx, sc, start)
	if err != nil {
		return nil, fmt.Errorf("application trends: %w", err)
	}
	for _, r := range appRows {
		if p, ok := points[r.Month]; ok {
			p.Applications = r.Total
			p.Approved = r.Approved
		}
	}

	payRows, err := s.monthlyPayments(ctx, sc, start)
	if err != nil {
		return nil, fmt.Errorf("payment trends: %w", err)
	}
	for _, r := range payRows {
		if p, ok := points[r.Month]; ok {
			p.Payments = r.Count
			p.Amount = r.Amount
		}
	}

	out := make([]MonthlyPoint, 0, months)
	for _, m := range order {
		out = append(out, *points[m])
	}
	return out, nil
}

type monthlyAppRow struct {
	Month    string `bson:"_id"`
	Total    int64  `bson:"total"`
	Approved int64  `bson:"approved"`
}

func (s *Store) monthlyApplications(ctx context.Context, sc scope.Scope, start time.Time) ([]monthlyAppRow, error) {
	match := sc.Apply(bson.M{"submitted_at": bson.M{"$gte": start}})
	approvedCond := bson.M{"$cond": bson.A{
		bson.M{"$in": bson.A{"$status", bson.A{models.ApplicationApproved, models.ApplicationDisbursed}}},
		1, 0,
	}}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m",
				"date":   "$submitted_at",
			}},
			"total":    bson.M{"$sum": 1},
			"approved": bson.M{"$sum": approvedCond},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cur, err := s.applications.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []monthlyAppRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

type monthlyPayRow struct {
	Month  string  `bson:"_id"`
	Count  int64   `bson:"count"`
	Amount float64 `bson:"amount"`
}

func (s *Store) monthlyPayments(ctx context.Context, sc scope.Scope, start time.Time) ([]monthlyPayRow, error) {
	match := sc.Apply(bson.M{
		"created_at": bson.M{"$gte": start},
		"status":     models.PaymentCompleted,
	})

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m",
				"date":   "$created_at",
			}},
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$amount"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cur, err := s.payments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []monthlyPayRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
