package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradergym/internal/errors"
	"tradergym/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testAccount() *models.Account {
	return &models.Account{
		ID:             "apex-1",
		Name:           "Apex 50K",
		InitialBalance: 50000,
		MaxDrawdown:    2500,
		DrawdownType:   models.DrawdownTrailing,
		RiskSettings: &models.AccountRiskSettings{
			MaxDailyRisk:         500,
			MaxTradesPerDay:      2,
			MaxContractsPerTrade: 3,
			CalcMode:             models.CalcFixedContracts,
			TargetMode:           models.TargetFixedRR,
			RRRatio:              2,
			CommPerContract:      1.24,
			PreferredInstrument:  "MNQ",
		},
	}
}

func TestSQLiteStore_AccountRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAccount(ctx, testAccount()))

	got, err := s.GetAccount(ctx, "apex-1")
	require.NoError(t, err)

	assert.Equal(t, "Apex 50K", got.Name)
	assert.Equal(t, models.DrawdownTrailing, got.DrawdownType)
	assert.Equal(t, 2500.0, got.MaxDrawdown)
	require.NotNil(t, got.RiskSettings)
	assert.Equal(t, 500.0, got.RiskSettings.MaxDailyRisk)
	assert.Equal(t, "MNQ", got.RiskSettings.PreferredInstrument)
}

func TestSQLiteStore_GetAccountNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetAccount(context.Background(), "nope")
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
}

func TestSQLiteStore_SaveAccountOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acct := testAccount()
	require.NoError(t, s.SaveAccount(ctx, acct))

	acct.Name = "Apex 50K PA"
	acct.IsPA = true
	require.NoError(t, s.SaveAccount(ctx, acct))

	got, err := s.GetAccount(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apex 50K PA", got.Name)
	assert.True(t, got.IsPA)

	accounts, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestSQLiteStore_UpdateMaxDailyRisk(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAccount(ctx, testAccount()))
	require.NoError(t, s.UpdateMaxDailyRisk(ctx, "apex-1", 200))

	got, err := s.GetAccount(ctx, "apex-1")
	require.NoError(t, err)
	assert.Equal(t, 200.0, got.RiskSettings.MaxDailyRisk)
	// The rest of the profile must survive the write-back.
	assert.Equal(t, 2, got.RiskSettings.MaxTradesPerDay)
	assert.Equal(t, 2.0, got.RiskSettings.RRRatio)
}

func TestSQLiteStore_TradeFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAccount(ctx, testAccount()))
	trades := []models.Trade{
		{ID: "t1", AccountID: "apex-1", Date: "2025-03-03", Symbol: "MNQ", PnLNet: -500, Status: models.StatusLoss, DisciplineScore: 2},
		{ID: "t2", AccountID: "apex-1", Date: "2025-03-04", Symbol: "MNQ", PnLNet: 1200, Status: models.StatusWin, DisciplineScore: 5, IsAccordingToPlan: models.PlanYes},
		{ID: "t3", AccountID: "apex-1", Date: "2025-03-04", Symbol: "MES", PnLNet: 0, Status: models.StatusBreakEven, DisciplineScore: 3},
		{ID: "t4", AccountID: "other", Date: "2025-03-04", Symbol: "MNQ", PnLNet: 100, Status: models.StatusWin, DisciplineScore: 4},
	}
	require.NoError(t, s.LogTrades(ctx, trades))

	byAccount, err := s.GetTrades(ctx, TradeFilter{AccountID: "apex-1"})
	require.NoError(t, err)
	assert.Len(t, byAccount, 3)
	// Most recent first: date desc, id desc.
	assert.Equal(t, "t3", byAccount[0].ID)
	assert.Equal(t, "t2", byAccount[1].ID)
	assert.Equal(t, "t1", byAccount[2].ID)

	byDate, err := s.GetTrades(ctx, TradeFilter{AccountID: "apex-1", Date: "2025-03-04"})
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	bySymbol, err := s.GetTrades(ctx, TradeFilter{Symbol: "MES"})
	require.NoError(t, err)
	require.Len(t, bySymbol, 1)
	assert.Equal(t, models.StatusBreakEven, bySymbol[0].Status)

	byStatus, err := s.GetTrades(ctx, TradeFilter{AccountID: "apex-1", Status: models.StatusWin})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, models.PlanYes, byStatus[0].IsAccordingToPlan)

	limited, err := s.GetTrades(ctx, TradeFilter{AccountID: "apex-1", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteStore_TradeFieldsSurviveRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := models.Trade{
		ID:                "t1",
		AccountID:         "apex-1",
		Date:              "2025-03-04",
		Symbol:            "MNQ",
		PnLNet:            -320.5,
		Status:            models.StatusLoss,
		DisciplineScore:   1,
		ExecutionError:    models.ErrorStopLossSabotage,
		IsAccordingToPlan: models.PlanNo,
		Notes:             "pulled the stop, paid for it",
	}
	require.NoError(t, s.LogTrade(ctx, &in))

	got, err := s.GetTrades(ctx, TradeFilter{AccountID: "apex-1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, in, got[0])
}

func TestSQLiteStore_PrepRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := &models.DailyPrepData{
		Date:                 "2025-03-04",
		HRVValue:             52,
		HRVBaseline:          55,
		SleepHours:           7.5,
		PhysicalScore:        8,
		MentalScore:          7,
		EmotionalScore:       9,
		ProcessScore:         8,
		UncertaintyAccepted:  true,
		DailyRiskAmount:      400,
		HabitDisciplineScore: 7,
		JournalCompleted:     true,
		GatekeeperScore:      96,
		Verdict:              models.VerdictGreen,
	}
	require.NoError(t, s.SavePrep(ctx, "apex-1", in))

	got, err := s.GetPrep(ctx, "apex-1", "2025-03-04")
	require.NoError(t, err)
	assert.Equal(t, in, got)

	_, err = s.GetPrep(ctx, "apex-1", "2025-03-05")
	assert.ErrorIs(t, err, errors.ErrPrepNotFound)
}

func TestSQLiteStore_PrepIsPerAccount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePrep(ctx, "a", &models.DailyPrepData{Date: "2025-03-04", GatekeeperScore: 90}))
	require.NoError(t, s.SavePrep(ctx, "b", &models.DailyPrepData{Date: "2025-03-04", GatekeeperScore: 30}))

	a, err := s.GetPrep(ctx, "a", "2025-03-04")
	require.NoError(t, err)
	b, err := s.GetPrep(ctx, "b", "2025-03-04")
	require.NoError(t, err)

	assert.Equal(t, 90, a.GatekeeperScore)
	assert.Equal(t, 30, b.GatekeeperScore)
}
