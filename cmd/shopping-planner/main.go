package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"meal-shopping-planner/internal/app"
	"meal-shopping-planner/internal/calendar"
	"meal-shopping-planner/internal/config"
	"meal-shopping-planner/internal/database"
	"meal-shopping-planner/internal/planner"
	"meal-shopping-planner/internal/shopping"
)

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	application := app.NewApp(cfg, db)
	args := os.Args[2:]

	switch os.Args[1] {
	case "catalog-import":
		err = runCatalogImport(ctx, application, args)
	case "catalog-remove":
		err = runCatalogRemove(ctx, application, args)
	case "recipe-import":
		err = runRecipeImport(ctx, application, args)
	case "recipes":
		err = runRecipes(ctx, application)
	case "schedule":
		err = runSchedule(ctx, application, args)
	case "unschedule":
		err = runUnschedule(ctx, application, args)
	case "plan":
		err = runPlan(ctx, application, args)
	case "populate":
		err = runPopulate(ctx, application, args)
	case "recommend":
		err = runRecommend(ctx, application, args)
	case "generate":
		err = runGenerate(ctx, application, args)
	case "lists":
		err = runLists(ctx, application, args)
	case "show":
		err = runShow(ctx, application, args)
	case "check":
		err = runCheck(ctx, application, args)
	case "set-qty":
		err = runSetQuantity(ctx, application, args)
	case "status":
		err = runStatus(ctx, application, args)
	case "delete":
		err = runDelete(ctx, application, args)
	case "sync":
		err = runSync(ctx, application, args)
	case "stats":
		err = runStats(ctx, application)
	case "metrics-cleanup":
		err = runMetricsCleanup(application, args)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func printUsage() {
	fmt.Println("Usage: shopping-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  catalog-import     Load ingredient catalog entries from a YAML file")
	fmt.Println("  catalog-remove     Remove an ingredient from the catalog")
	fmt.Println("  recipe-import      Load recipes from a JSON file")
	fmt.Println("  recipes            Show stored recipes")
	fmt.Println("  schedule           Put a recipe on a day of the meal plan")
	fmt.Println("  unschedule         Remove a meal plan entry")
	fmt.Println("  plan               Show the meal plan for a date range")
	fmt.Println("  populate           Spread recipes over the days of a range")
	fmt.Println("  recommend          Suggest a list strategy for a date range")
	fmt.Println("  generate           Create shopping lists for a date range")
	fmt.Println("  lists              Show shopping lists")
	fmt.Println("  show               Show the items of a list")
	fmt.Println("  check              Mark an item as purchased (or not)")
	fmt.Println("  set-qty            Override the amount of an item")
	fmt.Println("  status             Change the status of a list")
	fmt.Println("  delete             Delete a list")
	fmt.Println("  sync               Update a list from the current meal plan")
	fmt.Println("  stats              Count recipes, catalog entries and stale lists")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}

func rangeFlags(fs *flag.FlagSet) (from, to *string) {
	today := calendar.Format(time.Now())
	from = fs.String("from", today, "First day of the range (YYYY-MM-DD)")
	to = fs.String("to", calendar.Format(calendar.AddDays(calendar.Day(time.Now()), 6)), "Last day of the range (YYYY-MM-DD)")
	return from, to
}

func runCatalogImport(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("catalog-import", flag.ExitOnError)
	path := fs.String("file", a.Config().CatalogPath, "Catalog YAML file")
	fs.Parse(args)

	n, err := a.ImportCatalog(ctx, *path)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d catalog entries.\n", n)
	return nil
}

func runCatalogRemove(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("catalog-remove", flag.ExitOnError)
	name := fs.String("name", "", "Canonical ingredient name")
	fs.Parse(args)

	if *name == "" {
		return errors.New("-name is required")
	}
	return a.RemoveCatalogEntry(ctx, *name)
}

func runRecipeImport(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("recipe-import", flag.ExitOnError)
	path := fs.String("file", "data/recipes.json", "Recipes JSON file")
	fs.Parse(args)

	n, err := a.ImportRecipes(ctx, *path)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d recipes.\n", n)
	return nil
}

func runRecipes(ctx context.Context, a *app.App) error {
	recipes, err := a.Recipes(ctx)
	if err != nil {
		return err
	}
	for _, r := range recipes {
		line := fmt.Sprintf("%-24s %s (%d ingredients)", r.ID, r.Name, len(r.Ingredients))
		if groups := r.Groups(); len(groups) > 0 {
			line += " [" + strings.Join(groups, ", ") + "]"
		}
		fmt.Println(line)
	}
	return nil
}

func runSchedule(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	date := fs.String("date", calendar.Format(time.Now()), "Day of the meal (YYYY-MM-DD)")
	recipeID := fs.String("recipe", "", "Recipe ID")
	fs.Parse(args)

	if *recipeID == "" {
		return errors.New("-recipe is required")
	}
	day, err := calendar.Parse(*date)
	if err != nil {
		return err
	}
	entry, err := a.Schedule(ctx, day, *recipeID)
	if err != nil {
		return err
	}
	fmt.Printf("Scheduled %s on %s (entry %s).\n", entry.RecipeID, calendar.Format(entry.Date), entry.ID)
	return nil
}

func runUnschedule(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("unschedule", flag.ExitOnError)
	entryID := fs.String("entry", "", "Meal plan entry ID")
	fs.Parse(args)

	entry, err := a.Unschedule(ctx, *entryID)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %s from %s.\n", entry.RecipeID, calendar.Format(entry.Date))
	return nil
}

func runPlan(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	from, to := rangeFlags(fs)
	fs.Parse(args)

	rng, err := calendar.ParseRange(*from, *to)
	if err != nil {
		return err
	}
	entries, err := a.Plan(ctx, rng)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Nothing planned.")
	}
	for _, e := range entries {
		fmt.Printf("%s  %-24s %s\n", e.Date.Format("Mon 2006-01-02"), e.RecipeID, e.ID)
	}
	return nil
}

func runPopulate(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	from, to := rangeFlags(fs)
	recipes := fs.String("recipes", "", "Comma-separated recipe IDs, in order")
	mode := fs.String("mode", string(planner.ModeFill), "fill or replace")
	fs.Parse(args)

	rng, err := calendar.ParseRange(*from, *to)
	if err != nil {
		return err
	}
	m, err := planner.ParseMode(*mode)
	if err != nil {
		return err
	}

	res, err := a.Populate(ctx, planner.PopulateRequest{
		RecipeIDs: splitCSV(*recipes),
		Range:     rng,
		Mode:      m,
	})
	if err != nil {
		return err
	}
	for _, e := range res.Created {
		fmt.Printf("+ %s  %s\n", calendar.Format(e.Date), e.RecipeID)
	}
	for _, e := range res.Removed {
		fmt.Printf("- %s  %s\n", calendar.Format(e.Date), e.RecipeID)
	}
	if len(res.Discarded) > 0 {
		fmt.Printf("No free day for: %s\n", strings.Join(res.Discarded, ", "))
	}
	return nil
}

func runRecommend(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	from, to := rangeFlags(fs)
	fs.Parse(args)

	rng, err := calendar.ParseRange(*from, *to)
	if err != nil {
		return err
	}
	strategy, warnings, err := a.Recommend(ctx, rng)
	if err != nil {
		return err
	}
	fmt.Printf("Recommended strategy: %s (%d freshness warnings with include_all)\n", strategy, warnings)
	return nil
}

func runGenerate(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	from, to := rangeFlags(fs)
	name := fs.String("name", "", "List name (defaults to the range)")
	strategy := fs.String("strategy", "", "include_all, exclude_perishables, split_lists or custom")
	categories := fs.String("categories", "", "Comma-separated categories for the custom strategy")
	window := fs.Int("window", 0, "Days covered by the near list of a split (0 uses shelf life)")
	fs.Parse(args)

	rng, err := calendar.ParseRange(*from, *to)
	if err != nil {
		return err
	}
	req := shopping.GenerateRequest{
		Name:       *name,
		Range:      rng,
		Categories: splitCSV(*categories),
		Split:      shopping.SplitOptions{WindowDays: *window},
	}
	if req.Name == "" {
		req.Name = "Shopping " + rng.String()
	}
	if *strategy != "" {
		if req.Strategy, err = shopping.ParseStrategy(*strategy); err != nil {
			return err
		}
	}

	lists, err := a.GenerateLists(ctx, req)
	if err != nil {
		return err
	}
	for _, l := range lists {
		fmt.Printf("Created %s %q (%s, %s)\n", l.ID, l.Name, l.Range(), l.Strategy)
		for _, w := range l.Warnings {
			fmt.Printf("  ! %s: %s, used in %d days\n", w.Ingredient, w.Status, w.DaysUntilUse)
		}
	}
	return nil
}

func runLists(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("lists", flag.ExitOnError)
	status := fs.String("status", string(shopping.StatusActive), "active, completed, archived or all")
	fs.Parse(args)

	var st shopping.Status
	if *status != "all" {
		s, err := shopping.ParseStatus(*status)
		if err != nil {
			return err
		}
		st = s
	}

	lists, err := a.Lists(ctx, st)
	if err != nil {
		return err
	}
	if len(lists) == 0 {
		fmt.Println("No lists.")
	}
	for _, l := range lists {
		marker := ""
		if l.NeedsSync {
			marker = "  [needs sync]"
		}
		fmt.Printf("%s  %-28s %s  %-10s created %s%s\n",
			l.List.ID, l.List.Name, l.List.Range(), l.List.Status, humanize.Time(l.List.CreatedAt), marker)
	}
	return nil
}

func runShow(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	listID := fs.String("list", "", "List ID")
	fs.Parse(args)

	d, err := a.ShowList(ctx, *listID)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s, %s)\n", d.List.Name, d.List.Range(), d.List.Strategy)
	if d.NeedsSync {
		fmt.Println("The meal plan changed since this list was built; run sync.")
	}

	category := ""
	for _, it := range d.Items {
		if it.Category != category {
			category = it.Category
			fmt.Printf("\n%s\n", strings.ToUpper(category))
		}
		mark := "[ ]"
		if it.Checked {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %-20s %-12s %s", mark, it.Name, it.QuantityString(), it.ID)
		if it.FreshnessWarning {
			line += "  (" + string(it.FreshnessStatus) + ")"
		}
		fmt.Println(line)
	}
	return nil
}

func runCheck(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	itemID := fs.String("item", "", "Item ID")
	undo := fs.Bool("undo", false, "Mark the item as not purchased")
	fs.Parse(args)

	item, err := a.CheckItem(ctx, *itemID, !*undo)
	if err != nil {
		return err
	}
	fmt.Printf("%s checked=%t\n", item.Name, item.Checked)
	return nil
}

func runSetQuantity(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("set-qty", flag.ExitOnError)
	itemID := fs.String("item", "", "Item ID")
	qty := fs.String("qty", "", "New amount, empty for \"to taste\"")
	unit := fs.String("unit", "", "Unit of the new amount")
	fs.Parse(args)

	var amount *float64
	if *qty != "" {
		v, err := strconv.ParseFloat(*qty, 64)
		if err != nil {
			return fmt.Errorf("invalid -qty %q: %w", *qty, err)
		}
		amount = &v
	}

	item, err := a.SetItemQuantity(ctx, *itemID, amount, *unit)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", item.Name, item.QuantityString())
	return nil
}

func runStatus(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	listID := fs.String("list", "", "List ID")
	status := fs.String("set", string(shopping.StatusCompleted), "active, completed or archived")
	fs.Parse(args)

	st, err := shopping.ParseStatus(*status)
	if err != nil {
		return err
	}
	return a.SetListStatus(ctx, *listID, st)
}

func runDelete(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	listID := fs.String("list", "", "List ID")
	fs.Parse(args)

	return a.DeleteList(ctx, *listID)
}

func runSync(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	listID := fs.String("list", "", "List ID")
	keep := fs.Bool("keep", false, "Keep purchased items of removed recipes")
	discard := fs.Bool("discard", false, "Drop purchased items of removed recipes")
	fs.Parse(args)

	if *keep && *discard {
		return errors.New("-keep and -discard are exclusive")
	}

	if *keep || *discard {
		items, err := a.Reconcile(ctx, *listID, *keep)
		if err != nil {
			return err
		}
		fmt.Printf("Synced: %d items.\n", len(items))
		return nil
	}

	report, items, err := a.Sync(ctx, *listID)
	if errors.Is(err, shopping.ErrDecisionRequired) {
		fmt.Println("These recipes left the plan but some of their items were already bought:")
		for _, r := range report.Removed {
			fmt.Printf("  %s: %s\n", r.RecipeID, strings.Join(r.CheckedItems, ", "))
		}
		fmt.Println("Run again with -keep or -discard.")
		return nil
	}
	if err != nil {
		return err
	}
	if report.Empty() {
		fmt.Printf("Up to date: %d items.\n", len(items))
		return nil
	}
	fmt.Printf("Synced: %d items (added %v, removed %v).\n", len(items), report.Added, report.RemovedClean)
	return nil
}

func runStats(ctx context.Context, a *app.App) error {
	st, err := a.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Recipes:            %d\n", st.Recipes)
	fmt.Printf("Catalog entries:    %d\n", st.CatalogEntries)
	fmt.Printf("Lists needing sync: %d\n", st.ListsNeedingSync)
	return nil
}

func runMetricsCleanup(a *app.App, args []string) error {
	fs := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
	days := fs.Int("days", 30, "Keep records for the last N days")
	fs.Parse(args)

	affected, err := a.CleanupMetrics(*days)
	if err != nil {
		return err
	}
	fmt.Printf("Successfully removed %d old metric records.\n", affected)
	return nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
