package magento

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pimsync/connector/internal/domain/magento"
)

// SOAP fault code the platform uses for rejected credentials.
const faultAccessDenied = "2"

// SoapClient talks to the platform SOAP v1 API. Remote catalogs are fetched
// once and memoized for the client's lifetime; identical lookups within one
// run never re-issue network calls.
type SoapClient struct {
	http     *http.Client
	params   magento.ConnectionParams
	endpoint string
	logger   *zap.Logger

	mu         sync.Mutex
	session    string
	attributes []magento.RemoteAttribute
	storeViews []magento.StoreView
	categories []magento.RemoteCategory
}

// NewSoapClient creates a client for the given connection parameters. A zero
// timeout falls back to 10 seconds.
func NewSoapClient(params magento.ConnectionParams, timeout time.Duration, logger *zap.Logger) *SoapClient {
	if timeout == 0 {
		timeout = defaultProbeTimeout
	}
	// The WSDL path with its query stripped is the call endpoint.
	path := params.WSDLPath
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return &SoapClient{
		http:     &http.Client{Timeout: timeout},
		params:   params,
		endpoint: params.BaseURL + path,
		logger:   logger,
	}
}

// Attributes returns the attributes registered on the platform, memoized.
func (c *SoapClient) Attributes(ctx context.Context) ([]magento.RemoteAttribute, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attributes != nil {
		return c.attributes, nil
	}

	session, err := c.login(ctx)
	if err != nil {
		return nil, err
	}

	var result struct {
		Items []struct {
			AttributeID string `xml:"attribute_id"`
			Code        string `xml:"code"`
			Type        string `xml:"type"`
		} `xml:"callResponse>callReturn>item"`
	}
	if err := c.call(ctx, session, "product_attribute.list", &result); err != nil {
		return nil, fmt.Errorf("list attributes: %w", err)
	}

	attrs := make([]magento.RemoteAttribute, 0, len(result.Items))
	for _, item := range result.Items {
		attrs = append(attrs, magento.RemoteAttribute{
			AttributeID: item.AttributeID,
			Code:        item.Code,
			Type:        item.Type,
		})
	}
	c.attributes = attrs
	return attrs, nil
}

// StoreViews returns the store views configured on the platform, memoized.
func (c *SoapClient) StoreViews(ctx context.Context) ([]magento.StoreView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.storeViews != nil {
		return c.storeViews, nil
	}

	session, err := c.login(ctx)
	if err != nil {
		return nil, err
	}

	var result struct {
		Items []struct {
			StoreID int    `xml:"store_id"`
			Code    string `xml:"code"`
		} `xml:"callResponse>callReturn>item"`
	}
	if err := c.call(ctx, session, "store.list", &result); err != nil {
		return nil, fmt.Errorf("list store views: %w", err)
	}

	views := make([]magento.StoreView, 0, len(result.Items))
	for _, item := range result.Items {
		views = append(views, magento.StoreView{StoreID: item.StoreID, Code: item.Code})
	}
	c.storeViews = views
	return views, nil
}

// categoryNode mirrors one node of the platform category tree response.
type categoryNode struct {
	CategoryID string         `xml:"category_id"`
	Name       string         `xml:"name"`
	Children   []categoryNode `xml:"children>item"`
}

// Categories returns the platform categories, memoized. The tree response is
// flattened depth-first.
func (c *SoapClient) Categories(ctx context.Context) ([]magento.RemoteCategory, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.categories != nil {
		return c.categories, nil
	}

	session, err := c.login(ctx)
	if err != nil {
		return nil, err
	}

	var result struct {
		Root categoryNode `xml:"callResponse>callReturn"`
	}
	if err := c.call(ctx, session, "catalog_category.tree", &result); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	c.categories = flattenCategories(result.Root, nil)
	return c.categories, nil
}

// flattenCategories walks the category tree depth-first.
func flattenCategories(node categoryNode, out []magento.RemoteCategory) []magento.RemoteCategory {
	if node.CategoryID != "" {
		out = append(out, magento.RemoteCategory{CategoryID: node.CategoryID, Name: node.Name})
	}
	for _, child := range node.Children {
		out = flattenCategories(child, out)
	}
	return out
}

// login opens a session, reusing an already established one. Callers must
// hold c.mu.
func (c *SoapClient) login(ctx context.Context) (string, error) {
	if c.session != "" {
		return c.session, nil
	}

	body := fmt.Sprintf(
		`<login><username>%s</username><apiKey>%s</apiKey></login>`,
		xmlEscape(c.params.Login), xmlEscape(c.params.APIKey))

	var result struct {
		Session string `xml:"loginResponse>loginReturn"`
	}
	if err := c.post(ctx, body, &result); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if result.Session == "" {
		return "", fmt.Errorf("login: %w", magento.ErrInvalidResponseFormat)
	}
	c.session = result.Session
	c.logger.Debug("platform session opened")
	return c.session, nil
}

// call invokes one API resource under the session.
func (c *SoapClient) call(ctx context.Context, session, resource string, result any) error {
	body := fmt.Sprintf(
		`<call><sessionId>%s</sessionId><resourcePath>%s</resourcePath></call>`,
		xmlEscape(session), xmlEscape(resource))
	return c.post(ctx, body, result)
}

// post sends one SOAP envelope and decodes the response body into result.
func (c *SoapClient) post(ctx context.Context, body string, result any) error {
	envelope := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">` +
		`<SOAP-ENV:Body>` + body + `</SOAP-ENV:Body></SOAP-ENV:Envelope>`

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBufferString(envelope))
	if err != nil {
		return fmt.Errorf("%w: %v", magento.ErrNotReachable, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", magento.ErrNotReachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", magento.ErrNotReachable, err)
	}

	if fault := parseFault(raw); fault != nil {
		if fault.Code == faultAccessDenied {
			return fmt.Errorf("%w: %s", magento.ErrAccessDenied, fault.Message)
		}
		return fmt.Errorf("platform fault %s: %s", fault.Code, fault.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", magento.ErrNotReachable, resp.StatusCode)
	}

	var parsed struct {
		Body struct {
			Inner []byte `xml:",innerxml"`
		} `xml:"Body"`
	}
	if err := xml.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("%w: %v", magento.ErrInvalidResponseFormat, err)
	}
	if err := xml.Unmarshal(wrap(parsed.Body.Inner), result); err != nil {
		return fmt.Errorf("%w: %v", magento.ErrInvalidResponseFormat, err)
	}
	return nil
}

type soapFault struct {
	Code    string
	Message string
}

// parseFault extracts a SOAP fault if the response carries one.
func parseFault(raw []byte) *soapFault {
	if !bytes.Contains(raw, []byte("Fault")) {
		return nil
	}
	var parsed struct {
		Body struct {
			Fault *struct {
				Code    string `xml:"faultcode"`
				Message string `xml:"faultstring"`
			} `xml:"Fault"`
		} `xml:"Body"`
	}
	if err := xml.Unmarshal(raw, &parsed); err != nil || parsed.Body.Fault == nil {
		return nil
	}
	return &soapFault{Code: parsed.Body.Fault.Code, Message: parsed.Body.Fault.Message}
}

// wrap encloses a body fragment in a root element so it forms one document.
func wrap(inner []byte) []byte {
	out := make([]byte, 0, len(inner)+13)
	out = append(out, "<root>"...)
	out = append(out, inner...)
	out = append(out, "</root>"...)
	return out
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Ensure SoapClient implements magento.Webservice
var _ magento.Webservice = (*SoapClient)(nil)
