// Package kitclient is the Go form controller for the generation service: it
// validates the form, submits one KitRequest, renders the returned outline and
// saves the Word document.
package kitclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"comply_desk/catalog"
	"comply_desk/document"
	"comply_desk/generator"
)

// FallbackFilename is used when the service returns a document without a name.
const FallbackFilename = "comply-desk-kit.docx"

// ErrBusy is returned when a submission is already in flight.
var ErrBusy = errors.New("a submission is already in progress")

// Kind classifies a failed submission.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnknownProduct
	KindGeneration
	KindDownload
)

// SubmitError carries the user-facing message for a failed step and its cause.
type SubmitError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Messages is the user-facing copy for each outcome.
type Messages struct {
	Validation       string
	UnknownProduct   string
	GenerationFailed string
	DownloadFailed   string
	MissingDownload  string
}

// DefaultMessages mirrors the copy of the web form.
func DefaultMessages() Messages {
	return Messages{
		Validation:       "Please fill in business name, industry and state/region before generating.",
		UnknownProduct:   "That kit is not in the catalog. Pick one from the kit list.",
		GenerationFailed: "Sorry, something went wrong generating your kit. Please try again, or contact enquiries@comply-desk.com.",
		DownloadFailed:   "Your outline is ready, but the Word download failed.",
		MissingDownload:  "Your kit was generated but a download was not returned.",
	}
}

// Config configures a Controller.
type Config struct {
	// Endpoint is the full URL of the generation service.
	Endpoint   string
	HTTPClient *http.Client
	Messages   Messages
}

// Form holds the five customer fields as typed by the user.
type Form struct {
	BusinessName string
	Industry     string
	State        string
	Employees    string
	Risks        string
}

// Trimmed returns f with surrounding whitespace removed from every field.
func (f Form) Trimmed() Form {
	return Form{
		BusinessName: strings.TrimSpace(f.BusinessName),
		Industry:     strings.TrimSpace(f.Industry),
		State:        strings.TrimSpace(f.State),
		Employees:    strings.TrimSpace(f.Employees),
		Risks:        strings.TrimSpace(f.Risks),
	}
}

// Complete reports whether the required fields are filled.
func (f Form) Complete() bool {
	t := f.Trimmed()
	return t.BusinessName != "" && t.Industry != "" && t.State != ""
}

// State is the controller's position in idle → submitting → idle.
type State int

const (
	StateIdle State = iota
	StateSubmitting
)

// Result is a successful generation. Document is nil when the download step
// failed; DownloadErr then says why while Plan and HTML stay usable.
type Result struct {
	Plan        generator.OutlinePlan
	HTML        string
	Document    []byte
	Filename    string
	DownloadErr *SubmitError
}

// Controller drives one form instance against the generation service.
type Controller struct {
	cfg     Config
	catalog *catalog.Catalog

	mu    sync.Mutex
	state State
}

// New returns a Controller that resolves products against cat.
func New(cat *catalog.Catalog, cfg Config) (*Controller, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 90 * time.Second}
	}
	if cfg.Messages == (Messages{}) {
		cfg.Messages = DefaultMessages()
	}
	return &Controller{cfg: cfg, catalog: cat}, nil
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Resolve looks slug up in the catalog.
func (c *Controller) Resolve(slug string) (catalog.Product, bool) {
	return c.catalog.Lookup(slug)
}

// Submit validates form, posts it for product slug and decodes the reply.
// Validation and unknown products fail without any network call.
func (c *Controller) Submit(ctx context.Context, slug string, form Form, paid bool) (*Result, error) {
	product, ok := c.Resolve(slug)
	if !ok {
		return nil, &SubmitError{Kind: KindUnknownProduct, Message: c.cfg.Messages.UnknownProduct}
	}
	form = form.Trimmed()
	if !form.Complete() {
		return nil, &SubmitError{Kind: KindValidation, Message: c.cfg.Messages.Validation}
	}

	if !c.begin() {
		return nil, ErrBusy
	}
	defer c.end()

	mode := generator.ModePreview
	if paid {
		mode = generator.ModeFull
	}
	req := generator.KitRequest{
		ProductSlug:  product.Slug,
		ProductName:  product.Name,
		BusinessName: form.BusinessName,
		Industry:     form.Industry,
		State:        form.State,
		Employees:    form.Employees,
		Risks:        form.Risks,
		Mode:         mode,
	}

	reply, err := c.post(ctx, req)
	if err != nil {
		return nil, &SubmitError{Kind: KindGeneration, Message: c.cfg.Messages.GenerationFailed, Err: err}
	}

	res := &Result{Plan: reply.OutlinePlan}
	html, err := document.HTML(reply.OutlinePlan, document.Meta{ProductName: product.Name, BusinessName: form.BusinessName})
	if err != nil {
		return nil, &SubmitError{Kind: KindGeneration, Message: c.cfg.Messages.GenerationFailed, Err: err}
	}
	res.HTML = html

	switch {
	case reply.DocxBase64 == "":
		res.DownloadErr = &SubmitError{Kind: KindDownload, Message: c.cfg.Messages.MissingDownload}
	default:
		data, err := base64.StdEncoding.DecodeString(reply.DocxBase64)
		if err != nil {
			res.DownloadErr = &SubmitError{Kind: KindDownload, Message: c.cfg.Messages.DownloadFailed, Err: err}
			break
		}
		res.Document = data
		res.Filename = reply.Filename
		if res.Filename == "" {
			res.Filename = FallbackFilename
		}
	}
	return res, nil
}

// Save writes the document into dir and returns its path. The file name is
// reduced to its base so a hostile reply cannot escape dir.
func (r *Result) Save(dir string) (string, error) {
	if r.Document == nil {
		if r.DownloadErr != nil {
			return "", r.DownloadErr
		}
		return "", errors.New("no document to save")
	}
	name := filepath.Base(filepath.Clean("/" + r.Filename))
	if name == "/" || name == "." {
		name = FallbackFilename
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, r.Document, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type generateReply struct {
	generator.OutlinePlan
	DocxBase64 string `json:"docxBase64"`
	Filename   string `json:"filename"`
}

func (c *Controller) post(ctx context.Context, kr generator.KitRequest) (generateReply, error) {
	body, err := json.Marshal(kr)
	if err != nil {
		return generateReply{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return generateReply{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return generateReply{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		reason := strings.TrimSpace(string(text))
		if reason == "" {
			reason = "Generation failed"
		}
		return generateReply{}, fmt.Errorf("%s (HTTP %d)", reason, resp.StatusCode)
	}

	var reply generateReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return generateReply{}, fmt.Errorf("decode response: %w", err)
	}
	return reply, nil
}

func (c *Controller) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSubmitting {
		return false
	}
	c.state = StateSubmitting
	return true
}

func (c *Controller) end() {
	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()
}
