package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Client is a thin resty wrapper shared by the REST endpoints: base URL,
// timeouts, retry policy and Retry-After handling live here so the endpoint
// code stays declarative.
type Client struct {
	client *resty.Client
}

func NewClient(host string) *Client {
	host = strings.TrimSuffix(host, "/")

	// resty picks up HTTP_PROXY/HTTPS_PROXY from the environment on its own.
	client := resty.New().
		SetBaseURL(host).
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		SetRetryAfter(func(client *resty.Client, resp *resty.Response) (time.Duration, error) {
			if resp.StatusCode() == http.StatusTooManyRequests {
				if retryAfter := resp.Header().Get("Retry-After"); retryAfter != "" {
					if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
						return seconds, nil
					}
				}
				return 10 * time.Second, nil
			}
			return 0, nil
		})

	return &Client{client: client}
}

// RequestOptions carries per-request headers, query params and a JSON body.
type RequestOptions struct {
	Headers map[string]string
	Params  map[string]string
	Body    interface{}
}

func (c *Client) newRequest(ctx context.Context) *resty.Request {
	r := c.client.R()
	if ctx != nil {
		r.SetContext(ctx)
	}
	r.SetHeader("Accept", "application/json")
	r.SetHeader("User-Agent", "aevo-sdk/go")
	return r
}

// DoRequest performs one call against the base URL and unmarshals a JSON
// response into out when out is non-nil. Non-2xx responses are returned as
// errors carrying the response body.
func (c *Client) DoRequest(ctx context.Context, method, endpoint string, opt *RequestOptions, out interface{}) error {
	r := c.newRequest(ctx)
	if opt != nil {
		for k, v := range opt.Headers {
			r.SetHeader(k, v)
		}
		if opt.Params != nil {
			r.SetQueryParams(opt.Params)
		}
		if opt.Body != nil {
			r.SetHeader("Content-Type", "application/json")
			r.SetBody(opt.Body)
		}
	}
	if out != nil {
		r.SetResult(out)
	}

	var (
		resp *resty.Response
		err  error
	)
	switch strings.ToUpper(method) {
	case http.MethodGet:
		resp, err = r.Get(endpoint)
	case http.MethodPost:
		resp, err = r.Post(endpoint)
	case http.MethodDelete:
		resp, err = r.Delete(endpoint)
	case http.MethodPut:
		resp, err = r.Put(endpoint)
	default:
		return fmt.Errorf("unsupported method: %s", method)
	}
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, endpoint)
	}
	if resp.IsError() {
		return errors.Errorf("%s %s: status %d: %s", method, endpoint, resp.StatusCode(), resp.String())
	}
	return nil
}
