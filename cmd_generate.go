package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"comply_desk/catalog"
	"comply_desk/document"
	"comply_desk/kitclient"
)

var generateOpts struct {
	endpoint string
	product  string
	form     kitclient.Form
	paid     bool
	outDir   string
	htmlPath string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a kit through a running server and save the Word document",
	Example: `  complydesk generate --product osha-essentials-kit \
    --business "Acme Co" --industry Retail --state CA --employees 12`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&generateOpts.endpoint, "endpoint", "http://localhost:8080/generateKit", "generation endpoint URL")
	f.StringVar(&generateOpts.product, "product", "", "kit slug, as listed by the catalog command")
	f.StringVar(&generateOpts.form.BusinessName, "business", "", "business name")
	f.StringVar(&generateOpts.form.Industry, "industry", "", "industry")
	f.StringVar(&generateOpts.form.State, "state", "", "state or region")
	f.StringVar(&generateOpts.form.Employees, "employees", "", "number of workers")
	f.StringVar(&generateOpts.form.Risks, "risks", "", "special risks")
	f.BoolVar(&generateOpts.paid, "paid", false, "request the full kit instead of a preview")
	f.StringVar(&generateOpts.outDir, "out", ".", "directory to save the .docx in")
	f.StringVar(&generateOpts.htmlPath, "html", "", "also write the outline as HTML to this file")
	_ = generateCmd.MarkFlagRequired("product")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	httpClient := &http.Client{Timeout: 2 * time.Minute}

	cat, err := fetchCatalog(ctx, httpClient, generateOpts.endpoint)
	if err != nil {
		logger.Warn("could not fetch catalog from server, using built-in catalog", slog.String("error", err.Error()))
		cat = catalog.Default()
	}

	ctl, err := kitclient.New(cat, kitclient.Config{Endpoint: generateOpts.endpoint, HTTPClient: httpClient})
	if err != nil {
		return err
	}
	product, ok := ctl.Resolve(generateOpts.product)
	if !ok {
		return fmt.Errorf("unknown product %q; run `complydesk catalog` for the list", generateOpts.product)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, render(styleMuted, "Generating your "+product.Name+"..."))

	res, err := ctl.Submit(ctx, product.Slug, generateOpts.form, generateOpts.paid)
	if err != nil {
		var se *kitclient.SubmitError
		if errors.As(err, &se) && se.Err != nil {
			logger.Debug("generation failed", slog.String("cause", se.Err.Error()))
		}
		return err
	}

	printParagraphs(out, document.Layout(res.Plan, document.Meta{
		ProductName:  product.Name,
		BusinessName: generateOpts.form.Trimmed().BusinessName,
	}))
	fmt.Fprintln(out)

	if generateOpts.htmlPath != "" {
		if err := os.WriteFile(generateOpts.htmlPath, []byte(res.HTML), 0o644); err != nil {
			return err
		}
		fmt.Fprintln(out, render(styleMuted, "Outline written to "+generateOpts.htmlPath))
	}

	path, err := res.Save(generateOpts.outDir)
	if err != nil {
		// The outline above is still valid; only the download failed.
		return err
	}
	fmt.Fprintln(out, render(styleSuccess, "Saved "+path))
	return nil
}

// fetchCatalog reads /products.json from the same origin as endpoint.
func fetchCatalog(ctx context.Context, client *http.Client, endpoint string) (*catalog.Catalog, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	u.Path, u.RawQuery = "/products.json", ""

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", u, resp.Status)
	}
	return catalog.Parse(data)
}
