package main

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	contractx "github.com/rohanmehta-dev/fintalk/agent/contract"
	dispatchx "github.com/rohanmehta-dev/fintalk/agent/dispatch"
	"github.com/rohanmehta-dev/fintalk/agent/orchestrator"
	promptx "github.com/rohanmehta-dev/fintalk/agent/prompt"
	routerx "github.com/rohanmehta-dev/fintalk/agent/router"
	synthx "github.com/rohanmehta-dev/fintalk/agent/synth"
	toolx "github.com/rohanmehta-dev/fintalk/agent/tool"
	"github.com/rohanmehta-dev/fintalk/domain"
	"github.com/rohanmehta-dev/fintalk/domain/bunstore"
	"github.com/rohanmehta-dev/fintalk/domain/memstore"
	configx "github.com/rohanmehta-dev/fintalk/pkg/config"
	"github.com/rohanmehta-dev/fintalk/pkg/llmclient"
	_ "github.com/rohanmehta-dev/fintalk/pkg/logger/autoload"
	notifyx "github.com/rohanmehta-dev/fintalk/pkg/notify"
	"github.com/rohanmehta-dev/fintalk/server"
)

type AppConfig struct {
	DefaultModel string `envconfig:"DEFAULT_MODEL" split_words:"true" default:"gemini-1.5-flash"`
	DatabaseDSN  string `envconfig:"DATABASE_DSN" split_words:"true"`
	NotifyURL    string `envconfig:"NOTIFY_URL" split_words:"true"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")

	provider := llmclient.New(*configx.MustNew[llmclient.Config]("LLM"))
	if !provider.Ready() {
		log.Warn().Msg("LLM_API_KEY is not set, chat requests will be rejected")
	}

	gateway := newGateway(appCfg.DatabaseDSN)
	catalog := toolx.NewCatalog(gateway)
	prompts := promptx.LoadPromptSet()

	intentRouter, err := routerx.New(provider, prompts.Router)
	if err != nil {
		log.Fatal().Err(err).Msg("build router")
	}
	dispatcher, err := dispatchx.New(provider, catalog, prompts.Dispatcher)
	if err != nil {
		log.Fatal().Err(err).Msg("build dispatcher")
	}
	synthesizer, err := synthx.New(provider, prompts.Synthesizer)
	if err != nil {
		log.Fatal().Err(err).Msg("build synthesizer")
	}

	var notifier contractx.Notifier
	if appCfg.NotifyURL != "" {
		notifier = notifyx.MustNew(*configx.MustNew[notifyx.Config]("NOTIFY"))
	} else {
		log.Warn().Msg("NOTIFY_URL is not set, turn traces stay local")
	}

	orch, err := orchestrator.New(
		provider,
		intentRouter,
		dispatcher,
		synthesizer,
		catalog,
		notifier,
		prompts.General,
		orchestrator.Config{DefaultModel: appCfg.DefaultModel},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	srv := server.New(*configx.MustNew[server.Config]("SERVER"), orch)
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("http server stopped")
	}
}

func newGateway(dsn string) domain.Gateway {
	if dsn != "" {
		store, err := bunstore.Open(bunstore.Config{DSN: dsn})
		if err != nil {
			log.Fatal().Err(err).Msg("open database")
		}
		return store
	}
	log.Warn().Msg("DATABASE_DSN is not set, using in-memory sample data")
	return sampleStore()
}

// sampleStore seeds a small demo book so the assistant answers something
// useful without a database.
func sampleStore() *memstore.Store {
	store := memstore.New()

	savings := store.AddAccount(domain.Account{
		Type:     domain.AccountSavings,
		Number:   "XXXX4321",
		Balance:  decimal.RequireFromString("84250.75"),
		Currency: "INR",
		Status:   "active",
		Branch:   "MG Road",
	})
	current := store.AddAccount(domain.Account{
		Type:     domain.AccountCurrent,
		Number:   "XXXX9912",
		Balance:  decimal.RequireFromString("312000.00"),
		Currency: "INR",
		Status:   "active",
		Branch:   "Indiranagar",
	})

	now := time.Now()
	store.AddTransaction(domain.Transaction{
		AccountID: savings.ID,
		Date:      now.AddDate(0, 0, -1),
		Merchant:  "BigBasket",
		Amount:    decimal.RequireFromString("1890.00"),
		Category:  domain.CategoryFood,
		Type:      domain.TransactionDebit,
		Method:    domain.MethodUPI,
	})
	store.AddTransaction(domain.Transaction{
		AccountID: savings.ID,
		Date:      now.AddDate(0, 0, -3),
		Merchant:  "Salary Credit",
		Amount:    decimal.RequireFromString("95000.00"),
		Category:  domain.CategoryIncome,
		Type:      domain.TransactionCredit,
		Method:    domain.MethodNEFT,
	})
	store.AddTransaction(domain.Transaction{
		AccountID: current.ID,
		Date:      now.AddDate(0, 0, -2),
		Merchant:  "Indigo Airlines",
		Amount:    decimal.RequireFromString("14300.00"),
		Category:  domain.CategoryTravel,
		Type:      domain.TransactionDebit,
		Method:    domain.MethodCard,
	})

	card := store.AddCard(domain.CreditCard{
		Name:               "Platinum Rewards",
		Number:             "XXXX7788",
		OutstandingBalance: decimal.RequireFromString("23410.50"),
		CreditLimit:        decimal.RequireFromString("250000.00"),
		DueDate:            now.AddDate(0, 0, 12),
		MinimumDue:         decimal.RequireFromString("1200.00"),
		RewardPoints:       5420,
		Status:             "active",
	})
	store.AddCardSettings(domain.CardSettings{
		Kind:                    domain.CardKindCredit,
		CardNumber:              card.Number,
		DailyLimit:              decimal.RequireFromString("100000.00"),
		DailyPOSLimit:           decimal.RequireFromString("50000.00"),
		DailyInternationalLimit: decimal.RequireFromString("25000.00"),
		InternationalEnabled:    false,
	})
	store.AddCardSettings(domain.CardSettings{
		Kind:                    domain.CardKindDebit,
		CardNumber:              savings.Number,
		DailyLimit:              decimal.RequireFromString("50000.00"),
		DailyPOSLimit:           decimal.RequireFromString("25000.00"),
		DailyInternationalLimit: decimal.RequireFromString("10000.00"),
		InternationalEnabled:    true,
	})

	store.AddKnowledge(domain.KnowledgeEntry{
		Title:   "Emergency Fund Basics",
		Content: "Keep three to six months of expenses in a liquid savings account before investing elsewhere.",
	})
	store.AddKnowledge(domain.KnowledgeEntry{
		Title:   "Credit Card Repayment",
		Content: "Paying only the minimum due carries the balance forward at high interest. Clear the full statement amount whenever possible.",
	})

	return store
}
