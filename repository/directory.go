package repository

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/config"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// ErrDirectoryFetch wraps any transport-level failure talking to the
// investor directory. Malformed individual records never produce it.
var ErrDirectoryFetch = errors.New("investor directory fetch failed")

// DirectoryClient reads the remote list of approved investors. The
// directory answers either a JSON array or an XML document with repeated
// <member> elements depending on which upstream generated it.
type DirectoryClient struct {
	baseURL    string
	orgID      string
	campaignID string
	httpClient *http.Client
}

func NewDirectoryClient(cfg *config.Config) *DirectoryClient {
	return &DirectoryClient{
		baseURL:    cfg.DirectoryURL,
		orgID:      cfg.OrgID,
		campaignID: cfg.CampaignID,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// FetchAll performs one directory fetch and parses the full investor list.
func (c *DirectoryClient) FetchAll(ctx context.Context) ([]model.InvestorRecord, error) {
	timer := utils.TrackOutbound("directory", "fetch_all")
	defer timer.ObserveDuration()

	reqURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: bad directory url: %v", ErrDirectoryFetch, err)
	}
	q := reqURL.Query()
	q.Set("orgId", c.orgID)
	q.Set("campaignId", c.campaignID)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryFetch, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		utils.TrackError("directory", "fetch")
		return nil, fmt.Errorf("%w: %v", ErrDirectoryFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		utils.TrackError("directory", "status")
		return nil, fmt.Errorf("%w: unexpected status %d", ErrDirectoryFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrDirectoryFetch, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "xml") {
		return parseMemberXML(body)
	}
	return parseMemberJSON(body)
}

func parseMemberJSON(body []byte) ([]model.InvestorRecord, error) {
	var records []model.InvestorRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: decoding json: %v", ErrDirectoryFetch, err)
	}
	return records, nil
}

// parseMemberXML walks the document for <member> elements and decodes each
// one field-by-field. Missing fields stay "", and a member that fails to
// decode is skipped rather than failing the whole fetch.
func parseMemberXML(body []byte) ([]model.InvestorRecord, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(body)))
	var records []model.InvestorRecord

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: decoding xml: %v", ErrDirectoryFetch, err)
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "member" {
			continue
		}

		var record model.InvestorRecord
		if err := decoder.DecodeElement(&record, &start); err != nil {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// FindByEmail is a case-insensitive whole-string match over the fetched
// list. First match wins when the directory holds duplicates.
func FindByEmail(records []model.InvestorRecord, email string) *model.InvestorRecord {
	for i := range records {
		if strings.EqualFold(records[i].Email, email) {
			return &records[i]
		}
	}
	return nil
}
