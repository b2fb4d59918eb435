// internal/clients/meeting/client.go
//
// Client for a BigBlueButton-compatible meeting server. Requests are
// form-encoded GETs signed with a SHA-1 checksum over the action name,
// the serialized query string, and the shared secret. Responses are XML
// with a returncode of SUCCESS or FAILED plus a messageKey.
package meeting

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrCreateFailed is returned when the meeting server rejects or fails
// a create request. The underlying cause is logged, not surfaced.
var ErrCreateFailed = errors.New("could not create the meeting room")

// Client talks to a meeting server's HTTP API.
type Client struct {
	baseURL string
	secret  string
	http    *http.Client
	log     *zap.Logger
}

// New builds a meeting client. baseURL is the server's API root,
// e.g. "https://meet.example.org/bigbluebutton/api".
func New(baseURL, secret string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     logger,
	}
}

// Configured reports whether the integration has a server and secret set.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != "" && c.secret != ""
}

// MeetingID derives the deterministic meeting identifier for a group.
func MeetingID(groupID, slug string) string {
	sum := sha1.Sum([]byte(groupID + slug))
	return hex.EncodeToString(sum[:])
}

// apiResponse is the common envelope of the meeting server's XML replies.
type apiResponse struct {
	XMLName    xml.Name `xml:"response"`
	ReturnCode string   `xml:"returncode"`
	MessageKey string   `xml:"messageKey"`
	Message    string   `xml:"message"`
	Running    string   `xml:"running"`
}

// checksum signs a request: SHA-1 over action + query + secret.
func (c *Client) checksum(action, query string) string {
	sum := sha1.Sum([]byte(action + query + c.secret))
	return hex.EncodeToString(sum[:])
}

// call performs a signed GET for the given action and parses the XML reply.
func (c *Client) call(ctx context.Context, action string, params url.Values) (*apiResponse, error) {
	query := params.Encode()
	signed := query + "&checksum=" + c.checksum(action, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+action+"?"+signed, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("meeting server returned status %d", resp.StatusCode)
	}

	var parsed apiResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse meeting server response: %w", err)
	}
	return &parsed, nil
}

// CreateParams describes the room to provision.
type CreateParams struct {
	MeetingID   string
	Name        string
	AttendeePW  string
	ModeratorPW string
}

// Create provisions a meeting room. Failures are logged and collapsed
// into ErrCreateFailed so callers never see provider internals.
func (c *Client) Create(ctx context.Context, p CreateParams) error {
	params := url.Values{}
	params.Set("meetingID", p.MeetingID)
	params.Set("name", p.Name)
	params.Set("attendeePW", p.AttendeePW)
	params.Set("moderatorPW", p.ModeratorPW)

	resp, err := c.call(ctx, "create", params)
	if err != nil {
		c.log.Error("meeting create failed", zap.String("meeting_id", p.MeetingID), zap.Error(err))
		return ErrCreateFailed
	}
	if resp.ReturnCode != "SUCCESS" {
		c.log.Error("meeting create rejected",
			zap.String("meeting_id", p.MeetingID),
			zap.String("message_key", resp.MessageKey),
			zap.String("message", resp.Message))
		return ErrCreateFailed
	}
	return nil
}

// IsRunning reports whether a meeting is currently running. Errors are
// logged and swallowed; callers get a plain false.
func (c *Client) IsRunning(ctx context.Context, meetingID string) bool {
	params := url.Values{}
	params.Set("meetingID", meetingID)

	resp, err := c.call(ctx, "isMeetingRunning", params)
	if err != nil {
		c.log.Warn("meeting status check failed", zap.String("meeting_id", meetingID), zap.Error(err))
		return false
	}
	if resp.ReturnCode != "SUCCESS" {
		c.log.Warn("meeting status check rejected",
			zap.String("meeting_id", meetingID),
			zap.String("message_key", resp.MessageKey))
		return false
	}
	return strings.EqualFold(resp.Running, "true")
}

// JoinURL builds a signed join link for a meeting.
func (c *Client) JoinURL(meetingID, fullName, password string) string {
	params := url.Values{}
	params.Set("meetingID", meetingID)
	params.Set("fullName", fullName)
	params.Set("password", password)

	query := params.Encode()
	return c.baseURL + "/join?" + query + "&checksum=" + c.checksum("join", query)
}
