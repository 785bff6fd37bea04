// Client for the local HTTP API of a rooted Toon thermostat.
package toon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// The thermostat hardware accepts setpoints between 6 and 30 degrees Celsius.
const (
	AbsoluteMinTemp = 6.0
	AbsoluteMaxTemp = 30.0
)

const (
	apiPath        = "/happ_thermstat"
	defaultTimeout = 5 * time.Second
)

// Client issues single GET requests against the thermostat. Requests are not
// retried; a failed call is reported to the caller and the next poll starts
// fresh.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(host string, port int) *Client {
	return NewClientWithTimeout(host, port, defaultTimeout)
}

func NewClientWithTimeout(host string, port int, timeout time.Duration) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://%s:%d%s", host, port, apiPath),
		http:    &http.Client{Timeout: timeout},
	}
}

// Info polls the current thermostat snapshot.
func (c *Client) Info(ctx context.Context) (*ThermostatInfo, error) {
	params := url.Values{}
	params.Set("action", "getThermostatInfo")
	return c.get(ctx, params)
}

// SetSetpoint sets the target temperature in hundredths of a degree Celsius.
func (c *Client) SetSetpoint(ctx context.Context, value int) error {
	params := url.Values{}
	params.Set("action", "setSetpoint")
	params.Set("Setpoint", strconv.Itoa(value))
	_, err := c.get(ctx, params)
	return err
}

// ChangeScheme switches the scheme state, optionally with a temperature
// state. Used for both preset and hvac mode changes.
func (c *Client) ChangeScheme(ctx context.Context, req SchemeRequest) error {
	params := url.Values{}
	params.Set("action", "changeSchemeState")
	params.Set("state", strconv.Itoa(req.State))
	if req.TemperatureState != NoTemperatureState {
		params.Set("temperatureState", strconv.Itoa(req.TemperatureState))
	}
	_, err := c.get(ctx, params)
	return err
}

// get issues a single GET and decodes the JSON body. The device declares its
// responses as text/javascript and chokes on compressed transfers, so the
// request disables content negotiation and the body is decoded as JSON
// without looking at the content type.
func (c *Client) get(ctx context.Context, params url.Values) (*ThermostatInfo, error) {
	action := params.Get("action")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", action, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", action, err)
	}

	var info ThermostatInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%s: parse response: %w", action, err)
	}
	return &info, nil
}
