// Package corenlp implements a model backed by a Stanford CoreNLP server.
package corenlp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/sentparse/internal/grammar"
	"github.com/dgallion1/sentparse/internal/model"
	"github.com/dgallion1/sentparse/internal/tree"
	"golang.org/x/time/rate"
)

// DefaultModel is the English PCFG shipped with CoreNLP.
const DefaultModel = "edu/stanford/nlp/models/lexparser/englishPCFG.ser.gz"

const unparsable = "SENTENCE_SKIPPED_OR_UNPARSABLE"

// Config locates the server and the grammar it should load.
type Config struct {
	URL       string
	ModelPath string
	// RPS caps requests per second; zero or less means unlimited.
	RPS     float64
	Timeout time.Duration
}

// Client calls a CoreNLP server's annotate endpoint. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	modelPath  string
	opts       model.Options
	pack       *grammar.Pack
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *slog.Logger
	backoff    func(int) time.Duration
}

// Load connects to the server and checks that it is ready.
func Load(ctx context.Context, cfg Config, opts model.Options, log *slog.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("corenlp: server URL is required")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("corenlp: invalid server URL: %w", err)
	}
	if cfg.ModelPath == "" {
		cfg.ModelPath = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		modelPath:  cfg.ModelPath,
		opts:       opts,
		pack:       grammar.English(),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		log:        log,
		backoff:    Backoff,
	}
	if err := c.ready(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ready", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("corenlp ready check: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("corenlp not ready: status %d", resp.StatusCode)
	}
	return nil
}

type annotation struct {
	Sentences []struct {
		Index int    `json:"index"`
		Parse string `json:"parse"`
	} `json:"sentences"`
}

// Parse asks the server for a constituency parse of the pre-tokenized words.
// Transient failures are retried up to MaxRetries times.
func (c *Client) Parse(ctx context.Context, words []string) (*tree.Tree, error) {
	if err := c.opts.CheckLength(words); err != nil {
		return nil, err
	}
	var lastErr error
	for attempt := range MaxRetries {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		t, err := c.annotate(ctx, words)
		if err == nil {
			return t, nil
		}
		if !IsRetryable(err) {
			return nil, err
		}
		lastErr = err
		if attempt == MaxRetries-1 {
			break
		}
		wait := c.backoff(attempt)
		c.log.Warn("retrying corenlp request", "attempt", attempt+1, "backoff", wait, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("corenlp: giving up after %d attempts: %w", MaxRetries, lastErr)
}

func (c *Client) annotate(ctx context.Context, words []string) (*tree.Tree, error) {
	props, err := json.Marshal(c.properties())
	if err != nil {
		return nil, fmt.Errorf("marshal properties: %w", err)
	}
	endpoint := c.baseURL + "/?properties=" + url.QueryEscape(string(props))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(strings.Join(words, " ")))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("corenlp: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &RetryableError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("corenlp status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var ann annotation
	if err := json.Unmarshal(body, &ann); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(ann.Sentences) == 0 {
		return nil, fmt.Errorf("%w: empty annotation", model.ErrNoParse)
	}
	parse := strings.TrimSpace(ann.Sentences[0].Parse)
	if parse == "" || parse == unparsable {
		return nil, fmt.Errorf("%w: server skipped %q", model.ErrNoParse, strings.Join(words, " "))
	}
	t, err := tree.Parse(parse)
	if err != nil {
		return nil, fmt.Errorf("parse server tree: %w", err)
	}
	return t, nil
}

func (c *Client) properties() map[string]string {
	p := map[string]string{
		"annotators":           "tokenize,ssplit,pos,parse",
		"tokenize.whitespace":  "true",
		"ssplit.isOneSentence": "true",
		"parse.model":          c.modelPath,
		"outputFormat":         "json",
	}
	if c.opts.MaxLength > 0 {
		p["parse.maxlen"] = strconv.Itoa(c.opts.MaxLength)
	}
	if c.opts.RetainTmpSubcategories {
		p["parse.flags"] = "-retainTmpSubcategories"
	} else {
		p["parse.flags"] = ""
	}
	return p
}

func (c *Client) LanguagePack() *grammar.Pack { return c.pack }

// Close releases resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
