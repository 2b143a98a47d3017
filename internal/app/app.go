package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"meal-shopping-planner/internal/calendar"
	"meal-shopping-planner/internal/catalog"
	"meal-shopping-planner/internal/config"
	"meal-shopping-planner/internal/database"
	"meal-shopping-planner/internal/metrics"
	"meal-shopping-planner/internal/planner"
	"meal-shopping-planner/internal/plansync"
	"meal-shopping-planner/internal/recipe"
	"meal-shopping-planner/internal/shopping"
	"meal-shopping-planner/internal/units"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrEntryNotFound  = errors.New("meal plan entry not found")
)

// App holds the application's dependencies.
type App struct {
	cfg *config.Config
	db  *database.DB

	recipeRepo   *recipe.Repository
	catalogRepo  *catalog.Repository
	planRepo     *planner.PlanRepository
	listRepo     *shopping.Repository
	syncStore    *plansync.Repository
	metricsStore *metrics.Store

	populator  *planner.Populator
	detector   *plansync.Detector
	generator  *shopping.Generator
	reconciler *shopping.Reconciler
}

// NewApp wires repositories and services over an open database.
func NewApp(cfg *config.Config, db *database.DB) *App {
	recipeRepo := recipe.NewRepository(db.SQL)
	catalogRepo := catalog.NewRepository(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)
	listRepo := shopping.NewRepository(db.SQL)

	syncStore := plansync.NewRepository(db.SQL)
	detector := plansync.NewDetector(syncStore, planRepo, listRepo)
	generator := shopping.NewGenerator(planRepo, recipeRepo, catalogRepo, listRepo, detector)

	return &App{
		cfg:          cfg,
		db:           db,
		recipeRepo:   recipeRepo,
		catalogRepo:  catalogRepo,
		planRepo:     planRepo,
		listRepo:     listRepo,
		syncStore:    syncStore,
		metricsStore: metrics.NewStore(db.SQL),
		populator:    planner.NewPopulator(db.SQL),
		detector:     detector,
		generator:    generator,
		reconciler:   shopping.NewReconciler(listRepo, generator, detector),
	}
}

// Config returns the configuration the app was built with.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Schedule puts a recipe on a day of the meal plan.
func (a *App) Schedule(ctx context.Context, day time.Time, recipeID string) (planner.Entry, error) {
	rec, err := a.recipeRepo.Get(ctx, recipeID)
	if err != nil {
		return planner.Entry{}, err
	}
	if rec == nil {
		return planner.Entry{}, fmt.Errorf("%w: %s", ErrRecipeNotFound, recipeID)
	}

	entry, err := a.planRepo.Add(ctx, day, recipeID)
	if err != nil {
		return planner.Entry{}, err
	}
	a.planChanged(ctx, []time.Time{entry.Date})
	return entry, nil
}

// Unschedule removes a meal-plan entry.
func (a *App) Unschedule(ctx context.Context, entryID string) (planner.Entry, error) {
	entry, err := a.planRepo.Delete(ctx, entryID)
	if err != nil {
		return planner.Entry{}, err
	}
	if entry == nil {
		return planner.Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	a.planChanged(ctx, []time.Time{entry.Date})
	return *entry, nil
}

// Plan returns the meal-plan entries of a range.
func (a *App) Plan(ctx context.Context, rng calendar.Range) ([]planner.Entry, error) {
	return a.planRepo.EntriesInRange(ctx, rng)
}

// Populate fills or replaces the plan for a range with a batch of recipes.
func (a *App) Populate(ctx context.Context, req planner.PopulateRequest) (planner.Result, error) {
	start := time.Now()

	if len(req.RecipeIDs) > 0 {
		recipes, err := a.recipeRepo.GetByIDs(ctx, req.RecipeIDs)
		if err != nil {
			return planner.Result{}, err
		}
		for _, id := range req.RecipeIDs {
			if _, ok := recipes[id]; !ok {
				return planner.Result{}, fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
			}
		}
	}

	res, err := a.populator.Populate(ctx, req)
	if err != nil {
		return planner.Result{}, err
	}
	a.planChanged(ctx, res.ChangedDays())
	a.record(metrics.Measure(metrics.OpPopulate, "", len(res.Created), start))
	return res, nil
}

// planChanged runs change detection after a committed plan mutation.
// Failures are logged only; the mutation itself already succeeded.
func (a *App) planChanged(ctx context.Context, days []time.Time) {
	obs, err := a.detector.OnPlanChanged(ctx, days)
	if err != nil {
		log.Printf("Warning: failed to check lists for plan changes: %v", err)
		return
	}
	for _, o := range obs {
		if o.NeedsSync {
			log.Printf("List %s is out of sync with the meal plan", o.ListID)
		}
	}
}

// GenerateLists builds and stores shopping lists for a plan range. An empty
// strategy or zero split window falls back to the configured defaults.
func (a *App) GenerateLists(ctx context.Context, req shopping.GenerateRequest) ([]shopping.List, error) {
	start := time.Now()
	if req.Strategy == "" {
		req.Strategy = a.cfg.DefaultStrategy
	}
	if req.Split.WindowDays == 0 {
		req.Split.WindowDays = a.cfg.SplitWindowDays
	}

	lists, err := a.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, l := range lists {
		items, err := a.listRepo.Items(ctx, l.ID)
		if err != nil {
			log.Printf("Warning: failed to count items of list %s: %v", l.ID, err)
		}
		a.record(metrics.Measure(metrics.OpGenerate, l.ID, len(items), start))
	}
	return lists, nil
}

// Recommend suggests a strategy for a plan range.
func (a *App) Recommend(ctx context.Context, rng calendar.Range) (shopping.Strategy, int, error) {
	return a.generator.Recommend(ctx, rng, a.cfg.RecommendSplitThreshold)
}

// ListOverview is a list together with its sync flag.
type ListOverview struct {
	List      shopping.List
	NeedsSync bool
}

// Lists returns lists in a status, or every list for "".
func (a *App) Lists(ctx context.Context, status shopping.Status) ([]ListOverview, error) {
	lists, err := a.listRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]ListOverview, 0, len(lists))
	for _, l := range lists {
		flagged, err := a.detector.NeedsSync(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ListOverview{List: l, NeedsSync: flagged})
	}
	return out, nil
}

// ListDetail is a list with its items.
type ListDetail struct {
	ListOverview
	Items []shopping.Item
}

// ShowList loads a list and its items.
func (a *App) ShowList(ctx context.Context, listID string) (ListDetail, error) {
	l, err := a.listRepo.Get(ctx, listID)
	if err != nil {
		return ListDetail{}, err
	}
	if l == nil {
		return ListDetail{}, shopping.ErrListNotFound
	}
	items, err := a.listRepo.Items(ctx, listID)
	if err != nil {
		return ListDetail{}, err
	}
	flagged, err := a.detector.NeedsSync(ctx, listID)
	if err != nil {
		return ListDetail{}, err
	}
	return ListDetail{ListOverview: ListOverview{List: *l, NeedsSync: flagged}, Items: items}, nil
}

// CheckItem marks an item as purchased or not.
func (a *App) CheckItem(ctx context.Context, itemID string, checked bool) (*shopping.Item, error) {
	if err := a.listRepo.SetChecked(ctx, itemID, checked); err != nil {
		return nil, err
	}
	return a.listRepo.GetItem(ctx, itemID)
}

// SetItemQuantity overrides an item's amount. A nil quantity means "to taste".
func (a *App) SetItemQuantity(ctx context.Context, itemID string, qty *float64, rawUnit string) (*shopping.Item, error) {
	unit := units.Normalize(rawUnit)
	if unit != "" && !units.Known(unit) {
		log.Printf("Warning: unit %q is not convertible, item %s will only merge with the same unit", unit, itemID)
	}
	if err := a.listRepo.UpdateQuantity(ctx, itemID, qty, unit); err != nil {
		return nil, err
	}
	return a.listRepo.GetItem(ctx, itemID)
}

// SetListStatus moves a list to completed or archived, or back to active.
func (a *App) SetListStatus(ctx context.Context, listID string, status shopping.Status) error {
	return a.listRepo.SetStatus(ctx, listID, status)
}

// DeleteList removes a list and forgets its sync state.
func (a *App) DeleteList(ctx context.Context, listID string) error {
	if err := a.listRepo.Delete(ctx, listID); err != nil {
		return err
	}
	if err := a.detector.Forget(ctx, listID); err != nil {
		log.Printf("Warning: failed to drop sync state of list %s: %v", listID, err)
	}
	return nil
}

// Conflicts reports which recipes a sync of the list would add or remove.
func (a *App) Conflicts(ctx context.Context, listID string) (shopping.ConflictReport, error) {
	return a.reconciler.Conflicts(ctx, listID)
}

// Sync reconciles a list keeping purchases, or returns
// shopping.ErrDecisionRequired with the conflicts that need a decision.
func (a *App) Sync(ctx context.Context, listID string) (shopping.ConflictReport, []shopping.Item, error) {
	start := time.Now()
	report, items, err := a.reconciler.Sync(ctx, listID)
	if err != nil {
		return report, nil, err
	}
	a.record(metrics.Measure(metrics.OpReconcile, listID, len(items), start))
	return report, items, nil
}

// Reconcile merges the current plan into a list with an explicit purchase decision.
func (a *App) Reconcile(ctx context.Context, listID string, keepPurchased bool) ([]shopping.Item, error) {
	start := time.Now()
	items, err := a.reconciler.Reconcile(ctx, listID, keepPurchased)
	if err != nil {
		return nil, err
	}
	a.record(metrics.Measure(metrics.OpReconcile, listID, len(items), start))
	return items, nil
}

// Recipes returns every stored recipe.
func (a *App) Recipes(ctx context.Context) ([]recipe.Recipe, error) {
	return a.recipeRepo.List(ctx)
}

// RemoveCatalogEntry deletes an ingredient from the catalog.
func (a *App) RemoveCatalogEntry(ctx context.Context, name string) error {
	return a.catalogRepo.Delete(ctx, name)
}

// Stats summarizes the stored data.
type Stats struct {
	Recipes          int
	CatalogEntries   int
	ListsNeedingSync int
}

// Stats counts recipes, catalog entries and lists flagged for sync.
func (a *App) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error
	if st.Recipes, err = a.recipeRepo.Count(ctx); err != nil {
		return Stats{}, err
	}
	if st.CatalogEntries, err = a.catalogRepo.Count(ctx); err != nil {
		return Stats{}, err
	}
	if st.ListsNeedingSync, err = a.syncStore.CountNeedingSync(ctx); err != nil {
		return Stats{}, err
	}
	return st, nil
}

// DailyActivity returns recorded operations for the last N days.
func (a *App) DailyActivity(days int) ([]metrics.DailyActivity, error) {
	return a.metricsStore.GetDailyActivity(days)
}

// CleanupMetrics removes metric records older than N days.
func (a *App) CleanupMetrics(days int) (int64, error) {
	return a.metricsStore.Cleanup(days)
}

func (a *App) record(m metrics.ExecutionMetric) {
	if err := a.metricsStore.Record(m); err != nil {
		log.Printf("Warning: failed to record %s metric: %v", m.Operation, err)
	}
}
