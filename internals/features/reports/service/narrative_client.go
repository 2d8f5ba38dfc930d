// file: internals/features/reports/service/narrative_client.go
//
// Klien API teks-generatif untuk laporan naratif perkembangan karakter.
// Read-only terhadap jurnal: tidak pernah menyentuh state machine.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	logModel "karakterku_backend/internals/features/character_logs/model"
)

var ErrInvalidResponse = errors.New("invalid narrative api response")

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("narrative api key is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("narrative api base url is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "text-summarizer-v1"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type generateRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

type generateResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Summarize merangkum jurnal satu siswa pada rentang tanggal jadi
// narasi perkembangan karakter berbahasa Indonesia.
func (c *Client) Summarize(ctx context.Context, studentName string, from, to time.Time, logs []logModel.CharacterLogModel) (string, error) {
	if len(logs) == 0 {
		return "", errors.New("tidak ada jurnal pada rentang tanggal ini")
	}

	payload := generateRequest{
		Model:     c.model,
		Prompt:    buildPrompt(studentName, from, to, logs),
		MaxTokens: 1024,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("narrative api status %d: %s", resp.StatusCode, string(raw))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", ErrInvalidResponse
	}
	if out.Error != "" {
		return "", fmt.Errorf("narrative api: %s", out.Error)
	}
	text := strings.TrimSpace(out.Text)
	if text == "" {
		return "", ErrInvalidResponse
	}
	return text, nil
}

func buildPrompt(studentName string, from, to time.Time, logs []logModel.CharacterLogModel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Buat narasi perkembangan karakter siswa %s periode %s s.d. %s berdasarkan jurnal harian berikut.\n",
		studentName, from.Format("2006-01-02"), to.Format("2006-01-02"))
	b.WriteString("Soroti kebiasaan bangun/tidur, ibadah, olahraga, makan, belajar, dan sosial. Maksimal tiga paragraf.\n\n")

	for _, entry := range logs {
		fmt.Fprintf(&b, "Tanggal %s (status %s):\n", entry.CharacterLogDate.Format("2006-01-02"), entry.CharacterLogStatus)
		writeRecord(&b, "Rencana", entry.Plan, entry.CharacterLogPlanSubmittedAt != nil)
		writeRecord(&b, "Realisasi", entry.Execution, entry.CharacterLogExecutionSubmittedAt != nil)
		b.WriteString("\n")
	}
	return b.String()
}

func writeRecord(b *strings.Builder, label string, rec logModel.ActivityRecord, submitted bool) {
	if !submitted {
		fmt.Fprintf(b, "- %s: belum diisi\n", label)
		return
	}
	fmt.Fprintf(b, "- %s: bangun %s, tidur %s; ibadah: %s (%s); olahraga: %s (%s); makan: %s; belajar: %s (%s); sosial: %s (%s)\n",
		label, rec.WakeUpTime, rec.SleepTime,
		strings.Join(rec.WorshipActivities, ", "), rec.WorshipDetail,
		rec.SportActivity, rec.SportDetail,
		rec.MealDescription,
		strings.Join(rec.StudyActivities, ", "), rec.StudyDetail,
		strings.Join(rec.SocialActivities, ", "), rec.SocialDetail)
}
