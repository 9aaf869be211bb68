package sigma

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	fiber "github.com/gofiber/fiber/v3"
	"github.com/longbridgeapp/assert"
	"github.com/shamaton/msgpack/v2"

	"github.com/hyp3rd/sigma/internal/constants"
	"github.com/hyp3rd/sigma/internal/libs/serializer"
	"github.com/hyp3rd/sigma/sentinel"
	"github.com/hyp3rd/sigma/types"
)

func startCalculator(t *testing.T, opts ...HTTPOption) (*Calculator, string) {
	t.Helper()

	cfg := NewConfig(constants.InMemoryBackend)
	cfg.CalculatorOptions = append(cfg.CalculatorOptions, WithManagementHTTP("127.0.0.1:0", opts...))

	ctx := context.Background()

	calc, err := New(ctx, cfg)
	assert.Nil(t, err)

	t.Cleanup(func() { _ = calc.Stop(ctx) })

	// wait briefly for listener
	time.Sleep(30 * time.Millisecond)

	addr := calc.HTTPAddress()
	assert.True(t, addr != "")

	return calc, "http://" + addr
}

func post(t *testing.T, url, contentType, accept, body string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, strings.NewReader(body))
	assert.Nil(t, err)

	req.Header.Set("Content-Type", contentType)

	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Do(req)
	assert.Nil(t, err)

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	assert.Nil(t, err)

	return resp, data
}

func TestHTTPServer_BasicEndpoints(t *testing.T) {
	_, base := startCalculator(t)
	client := &http.Client{Timeout: 2 * time.Second}

	// /health
	resp, err := client.Get(base + "/health")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.Header.Get("X-Request-ID") != "")
	_ = resp.Body.Close()

	// /config
	resp, err = client.Get(base + "/config")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var cfgBody map[string]any

	err = json.NewDecoder(resp.Body).Decode(&cfgBody)
	assert.Nil(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, constants.InMemoryBackend, cfgBody["backend"])
	assert.Equal(t, float64(constants.DefaultCacheCapacity), cfgBody["cacheCapacity"])
	assert.Equal(t, constants.DefaultStatsCollector, cfgBody["statsCollector"])
}

func TestHTTPServer_Calculate(t *testing.T) {
	calc, base := startCalculator(t)

	resp, data := post(t, base+"/calculate", "text/plain", "", "2 4 4 4 5 5 7 9")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json"))

	var body calculationResponse

	err := json.Unmarshal(data, &body)
	assert.Nil(t, err)
	assert.Equal(t, 8, body.N)
	assert.Equal(t, "5.000000", body.Mean)
	assert.Equal(t, "4.000000", body.Variance)
	assert.Equal(t, "2.000000", body.StdDev)
	assert.Equal(t, 2.0, body.Raw.StdDev)
	assert.Equal(t, 5, len(body.Trace))
	assert.Equal(t, "Calculated σ for n = 8.", body.Status)

	// JSON body, same list: served from the cache
	resp, _ = post(t, base+"/calculate", fiber.MIMEApplicationJSON, "", `{"input":"2,4,4,4,5,5,7,9"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, calc.GetStats()[types.StatCacheHit.String()].Count)
}

func TestHTTPServer_CalculateNegotiation(t *testing.T) {
	_, base := startCalculator(t)

	resp, data := post(t, base+"/calculate", "text/plain", "application/msgpack", "1 2 3 4")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/msgpack", resp.Header.Get("Content-Type"))

	var body calculationResponse

	err := msgpack.Unmarshal(data, &body)
	assert.Nil(t, err)
	assert.Equal(t, "1.118034", body.StdDev)

	resp, data = post(t, base+"/calculate", "text/plain", "application/cbor", "7 7")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/cbor", resp.Header.Get("Content-Type"))

	cbor, err := serializer.New(serializer.CBOR)
	assert.Nil(t, err)

	body = calculationResponse{}
	err = cbor.Unmarshal(data, &body)
	assert.Nil(t, err)
	assert.Equal(t, "7.000000", body.Mean)
	assert.Equal(t, "0.000000", body.Variance)
}

func TestHTTPServer_CalculateErrors(t *testing.T) {
	_, base := startCalculator(t)

	resp, data := post(t, base+"/calculate", "text/plain", "", "1, 2, x, 4")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var msg Message

	err := json.Unmarshal(data, &msg)
	assert.Nil(t, err)
	assert.Equal(t, Message{
		Code:     CodeInvalidToken,
		Text:     `Invalid token at position 3: "x". Use only integers.`,
		Position: 3,
		Token:    "x",
	}, msg)

	resp, data = post(t, base+"/calculate", "text/plain", "", "  ")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	msg = Message{}
	err = json.Unmarshal(data, &msg)
	assert.Nil(t, err)
	assert.Equal(t, CodeEmptyInput, msg.Code)

	resp, _ = post(t, base+"/calculate", fiber.MIMEApplicationJSON, "", `{"input":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPServer_ValidateAndClear(t *testing.T) {
	calc, base := startCalculator(t)

	resp, data := post(t, base+"/validate", "text/plain", "", "1, 2 3")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var hint struct {
		Hint    bool   `json:"hint"`
		Message string `json:"message"`
	}

	err := json.Unmarshal(data, &hint)
	assert.Nil(t, err)
	assert.True(t, hint.Hint)
	assert.Equal(t, "Press Enter to calculate.", hint.Message)

	resp, data = post(t, base+"/validate", fiber.MIMEApplicationJSON, "", `{"input":"1 two"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	err = json.Unmarshal(data, &hint)
	assert.Nil(t, err)
	assert.False(t, hint.Hint)

	_, err = calc.Calculate(context.Background(), "1 2 3")
	assert.Nil(t, err)
	assert.Equal(t, 1, calc.CacheCount(context.Background()))

	resp, _ = post(t, base+"/cache/clear", "text/plain", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, calc.CacheCount(context.Background()))
}

func TestHTTPServer_Auth(t *testing.T) {
	_, base := startCalculator(t, WithHTTPAuth(func(c fiber.Ctx) error {
		if c.Get("Authorization") != "Bearer secret" {
			return fiber.ErrUnauthorized
		}

		return nil
	}))

	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(base + "/health")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, base+"/health", nil)
	assert.Nil(t, err)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("X-Request-ID", "req-1")

	resp, err = client.Do(req)
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-1", resp.Header.Get("X-Request-ID"))
	_ = resp.Body.Close()
}

func TestHTTPServer_Middleware(t *testing.T) {
	var applied int

	counting := func(next Service) Service {
		applied++

		return countingService{Service: next, name: "http", calls: new([]string)}
	}

	_, base := startCalculator(t, WithHTTPMiddleware(counting))

	for range 2 {
		resp, _ := post(t, base+"/calculate", "text/plain", "", "1")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// applied once, when the routes are mounted
	assert.Equal(t, 1, applied)
}

func TestHTTPServer_ShutdownTimeout(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0")
	assert.Nil(t, srv.Shutdown(context.Background()))
	assert.Equal(t, "", srv.Address())

	calc, err := NewDefault(context.Background())
	assert.Nil(t, err)

	err = srv.Start(context.Background(), calc)
	assert.Nil(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// either the deadline or the shutdown wins the race
	err = srv.Shutdown(ctx)
	assert.True(t, err == nil || errors.Is(err, sentinel.ErrMgmtHTTPShutdownTimeout))
}
