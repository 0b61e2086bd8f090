package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL    = "https://api.openai.com/v1"
	defaultModel      = "gpt-4o-mini"
	defaultBatchSize  = 20 // équilibre fenêtre de contexte / vitesse
	defaultRetryLimit = 3
	defaultRetryDelay = 2 * time.Second
	defaultTimeout    = 2 * time.Minute
)

const translateSystemPrompt = "You are a professional translator. Translate the following text segments " +
	"to Traditional Chinese (Taiwan). Maintain the original format 'SEGMENT_index: translated_text' " +
	"for each line. Preserve any special formatting or technical terms where appropriate."

const summarySystemPrompt = "You are an editor for a technical blog. Summarize the following talk " +
	"transcript in Traditional Chinese (Taiwan), in two or three sentences suitable as a post introduction. " +
	"Reply with the summary only."

var segmentLinePattern = regexp.MustCompile(`^SEGMENT_(\d+):\s*(.*)$`)

// ClientConfig paramètre le client OpenAI. Les zéros prennent les défauts.
type ClientConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	BatchSize  int
	RetryLimit int
	RetryDelay time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client implémente Service au-dessus de l'API chat-completions, en HTTP
// direct (pas de SDK).
type Client struct {
	cfg  ClientConfig
	http *http.Client
	log  *slog.Logger
}

// NewClient construit le client en appliquant les défauts.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.RetryLimit <= 0 {
		cfg.RetryLimit = defaultRetryLimit
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Client{cfg: cfg, http: httpc, log: log}
}

// Translate traduit la liste par lots. Ordre et nombre préservés : un lot qui
// échoue après épuisement des retries revient tel quel (fallback dégradé),
// sauf quota épuisé qui interrompt tout.
func (c *Client) Translate(ctx context.Context, batch []string) ([]string, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	size := c.cfg.BatchSize
	totalBatches := (len(batch)-1)/size + 1
	c.log.Info("traduction des segments", "segments", len(batch), "batches", totalBatches)

	out := make([]string, 0, len(batch))
	for i := 0; i < len(batch); i += size {
		end := i + size
		if end > len(batch) {
			end = len(batch)
		}
		chunk := batch[i:end]
		batchNum := i/size + 1

		translated, err := c.translateChunk(ctx, chunk, batchNum, totalBatches)
		if err != nil {
			if errors.Is(err, ErrQuotaExhausted) || errors.Is(err, context.Canceled) {
				return nil, err
			}
			// épuisement des retries : on garde l'original pour ce lot
			c.log.Warn("batch abandonné, texte original conservé", "batch", batchNum, "err", err)
			out = append(out, chunk...)
			continue
		}
		out = append(out, translated...)
	}
	return out, nil
}

func (c *Client) translateChunk(ctx context.Context, chunk []string, batchNum, totalBatches int) ([]string, error) {
	c.log.Info("batch en cours", "batch", batchNum, "total", totalBatches)
	prompt := buildBatchPrompt(chunk)

	var lastErr error
	for attempt := 1; attempt <= c.cfg.RetryLimit; attempt++ {
		reply, err := c.chat(ctx, translateSystemPrompt, prompt)
		if err == nil {
			return applyBatchReply(chunk, reply), nil
		}
		if errors.Is(err, ErrQuotaExhausted) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		lastErr = err
		if attempt < c.cfg.RetryLimit {
			c.log.Warn("échec du batch, nouvel essai",
				"batch", batchNum, "attempt", attempt, "max", c.cfg.RetryLimit, "err", err)
			if werr := sleepCtx(ctx, c.cfg.RetryDelay); werr != nil {
				return nil, werr
			}
		}
	}
	return nil, fmt.Errorf("batch %d échoué après %d essais: %w", batchNum, c.cfg.RetryLimit, lastErr)
}

// Summarize produit un résumé zh-TW du transcript, avec les mêmes retries que
// la traduction.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.RetryLimit; attempt++ {
		reply, err := c.chat(ctx, summarySystemPrompt, text)
		if err == nil {
			return strings.TrimSpace(reply), nil
		}
		if errors.Is(err, ErrQuotaExhausted) || errors.Is(err, context.Canceled) {
			return "", err
		}
		lastErr = err
		if attempt < c.cfg.RetryLimit {
			if werr := sleepCtx(ctx, c.cfg.RetryDelay); werr != nil {
				return "", werr
			}
		}
	}
	return "", fmt.Errorf("résumé échoué après %d essais: %w", c.cfg.RetryLimit, lastErr)
}

// buildBatchPrompt encode un lot au protocole "SEGMENT_<index>: <texte>".
func buildBatchPrompt(chunk []string) string {
	var sb strings.Builder
	for idx, text := range chunk {
		if idx > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "SEGMENT_%d: %s", idx, text)
	}
	return sb.String()
}

// parseBatchReply extrait les lignes "SEGMENT_<index>: <texte>" d'une réponse.
// Les lignes qui ne suivent pas le protocole sont ignorées.
func parseBatchReply(reply string) map[int]string {
	out := make(map[int]string)
	for _, line := range strings.Split(reply, "\n") {
		m := segmentLinePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out[idx] = strings.TrimSpace(m[2])
	}
	return out
}

// applyBatchReply reconstruit le lot : chaque index manquant ou vide dans la
// réponse retombe sur le texte original, ordre et nombre conservés.
func applyBatchReply(chunk []string, reply string) []string {
	mapped := parseBatchReply(reply)
	out := make([]string, len(chunk))
	for idx, original := range chunk {
		if translated, ok := mapped[idx]; ok && translated != "" {
			out[idx] = translated
			continue
		}
		out[idx] = original
	}
	return out
}

// --- appel HTTP ------------------------------------------------------------

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (c *Client) chat(ctx context.Context, system, user string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode requête chat: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("requête chat: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("lecture réponse chat: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isQuotaBody(body) {
			return "", fmt.Errorf("openai http %d: %w", resp.StatusCode, ErrQuotaExhausted)
		}
		return "", fmt.Errorf("openai http %d: %s", resp.StatusCode, truncateBody(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode réponse chat: %w", err)
	}
	if parsed.Error != nil {
		if parsed.Error.Code == "insufficient_quota" || parsed.Error.Type == "insufficient_quota" {
			return "", fmt.Errorf("openai: %s: %w", parsed.Error.Message, ErrQuotaExhausted)
		}
		return "", fmt.Errorf("openai: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("réponse chat sans choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func isQuotaBody(body []byte) bool {
	return bytes.Contains(body, []byte("insufficient_quota"))
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 300 {
		return s[:297] + "..."
	}
	return s
}

// sleepCtx attend d, interruptible par le contexte.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
