package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/cafecatalog/internal/client/client"
	"github.com/dmitrijs2005/cafecatalog/internal/client/models"
	"github.com/dmitrijs2005/cafecatalog/internal/client/services"
	"golang.org/x/sync/errgroup"
)

var errInvalidSelection = errors.New("invalid selection")

// userMessage turns an operation error into text for the user.
func userMessage(err error) string {
	if apiErr, ok := client.AsAPIError(err); ok && apiErr.Message() != "" {
		return apiErr.Message()
	}
	if errors.Is(err, client.ErrUnavailable) {
		return "server unavailable"
	}
	return err.Error()
}

func (a *App) printError(err error) {
	fmt.Fprintf(a.out, "Error: %s\n", userMessage(err))
}

// printAlert shows an *AlertError once. Other errors are printed as usual.
func (a *App) printAlert(err error) {
	if alert, ok := services.AsAlert(err); ok {
		fmt.Fprintf(a.out, "Alert: %s\n", alert.Message)
		return
	}
	a.printError(err)
}

// List reloads the product collection and prints it.
func (a *App) List(ctx context.Context) error {
	if err := a.products.LoadAll(ctx, a.config.ProductPageSize); err != nil {
		a.printError(err)
		return err
	}

	snap := a.products.Snapshot()
	if len(snap.Products) == 0 {
		fmt.Fprintln(a.out, "No products")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tIMAGE")
	for _, p := range snap.Products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, categoryLabel(p.Category), p.Image)
	}
	return tw.Flush()
}

func categoryLabel(c models.CategoryRef) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Show prints a single product fetched from the server.
func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, 0, "Enter product id")
	if err != nil {
		return err
	}

	p, err := a.products.LoadOne(ctx, id)
	if err != nil {
		a.printError(err)
		return err
	}

	fmt.Fprintf(a.out, "ID: %s\n", p.ID)
	fmt.Fprintf(a.out, "Name: %s\n", p.Name)
	fmt.Fprintf(a.out, "Category: %s\n", categoryLabel(p.Category))
	fmt.Fprintf(a.out, "Price: %s\n", p.Price.StringFixed(2))
	fmt.Fprintf(a.out, "Available: %t\n", p.Available)
	if p.Image != "" {
		fmt.Fprintf(a.out, "Image: %s\n", p.Image)
	}
	if p.Owner != nil {
		fmt.Fprintf(a.out, "Created by: %s\n", p.Owner.Name)
	}
	return nil
}

// Add prompts for a name and a category and creates the product.
func (a *App) Add(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter product name", a.out)
	if err != nil {
		return err
	}

	categoryID, err := a.pickCategory(ctx, a.categoryChoices(ctx), "")
	if err != nil {
		a.printError(err)
		return err
	}

	p, err := a.products.Create(ctx, categoryID, name)
	if err != nil {
		a.printError(err)
		return err
	}

	fmt.Fprintf(a.out, "Created %s (%s)\n", p.Name, p.ID)
	return nil
}

// Edit loads the product and the category list side by side, prompts for a
// new name and category (empty input keeps the current value) and saves it.
// Only the product load can fail the group. A failed category load leaves
// the picker empty and the current category is kept.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, 0, "Enter product id")
	if err != nil {
		return err
	}

	var (
		p    *models.Product
		cats []models.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p, err = a.products.LoadOne(gctx, id)
		return err
	})
	g.Go(func() error {
		cats = a.categoryChoices(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		a.printError(err)
		return err
	}

	name, err := getSimpleText(a.reader, fmt.Sprintf("Enter name [%s]", p.Name), a.out)
	if err != nil {
		return err
	}
	if name == "" {
		name = p.Name
	}

	categoryID, err := a.pickCategory(ctx, cats, p.CategoryID())
	if err != nil {
		a.printError(err)
		return err
	}

	if err := a.products.Update(ctx, categoryID, name, id); err != nil {
		a.printError(err)
		return err
	}

	fmt.Fprintln(a.out, "Saved")
	return nil
}

// categoryChoices lists categories for the picker. A failure only means
// there is nothing to pick from.
func (a *App) categoryChoices(ctx context.Context) []models.Category {
	cats, err := a.products.Categories(ctx, a.config.CategoryPageSize)
	if err != nil {
		a.log.Warn(ctx, "category list unavailable", "error", err)
		return nil
	}
	return cats
}

// pickCategory lets the user choose one of cats by number. Empty input
// keeps current, or the first category when there is none.
func (a *App) pickCategory(ctx context.Context, cats []models.Category, current string) (string, error) {
	for i, c := range cats {
		fmt.Fprintf(a.out, "%d) %s\n", i+1, c.Name)
	}

	choice, err := getSimpleText(a.reader, "Enter category number (empty for default)", a.out)
	if err != nil {
		return "", err
	}

	selected := current
	if choice != "" {
		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(cats) {
			return "", fmt.Errorf("%w: %q", errInvalidSelection, choice)
		}
		selected = cats[n-1].ID
	}

	return a.products.ResolveCategory(ctx, selected)
}

// Delete removes a product and reloads the list.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, 0, "Enter product id to delete")
	if err != nil {
		return err
	}

	if err := a.products.Delete(ctx, id); err != nil {
		a.printAlert(err)
		return err
	}

	fmt.Fprintln(a.out, "Deleted")
	return a.List(ctx)
}

// Upload sends a local image for a product and reloads the list.
func (a *App) Upload(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, 0, "Enter product id")
	if err != nil {
		return err
	}
	path, err := a.argOrPrompt(args, 1, "Enter image path")
	if err != nil {
		return err
	}

	asset := imageAsset(path)
	if err := a.products.UploadImage(ctx, asset, id); err != nil {
		a.printAlert(err)
		return err
	}

	fmt.Fprintln(a.out, "Image saved")
	return a.List(ctx)
}

// imageAsset describes a picked file the way the upload expects it.
func imageAsset(path string) models.ImageAsset {
	if path == "" {
		return models.ImageAsset{}
	}
	return models.ImageAsset{
		URI:      path,
		Type:     mime.TypeByExtension(filepath.Ext(path)),
		FileName: filepath.Base(path),
	}
}

// Categories prints the available categories.
func (a *App) Categories(ctx context.Context) error {
	cats, err := a.products.Categories(ctx, a.config.CategoryPageSize)
	if err != nil {
		a.printError(err)
		return err
	}
	if len(cats) == 0 {
		fmt.Fprintln(a.out, "No categories")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%s\n", c.ID, c.Name)
	}
	return tw.Flush()
}
