package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-ExperienceBooking/internal/domain"
)

// Client клиент каталога впечатлений (мета-поля доступности)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetAvailability получает настройки доступности впечатления:
// емкость по умолчанию, емкость по типам билетов, lead time, буферы и правило повторения
func (c *Client) GetAvailability(ctx context.Context, experienceID int64) (*domain.ExperienceAvailability, error) {
	url := fmt.Sprintf("%s/internal/experiences/%d/availability", c.baseURL, experienceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Catalog unavailable for experience_id=%d: %v", experienceID, err)
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		c.log.Info("Experience not found in catalog: experience_id=%d", experienceID)
		return nil, ErrExperienceNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var payload availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return payload.toDomain(experienceID), nil
}

// IsNotFound проверяет, что впечатление отсутствует в каталоге
func IsNotFound(err error) bool {
	return errors.Is(err, ErrExperienceNotFound)
}
