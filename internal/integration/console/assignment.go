package console

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/flexprice/adminconsole/internal/domain/assignment"
	ierr "github.com/flexprice/adminconsole/internal/errors"
	"github.com/flexprice/adminconsole/internal/httpclient"
	"github.com/flexprice/adminconsole/internal/types"
)

const (
	payloadPartName = "payload"
	receiptPartName = "receipt"
)

// AssignmentClient implements assignment.Client over
// POST /tenants/{id}/plans/assign and /tenants/{id}/plans/extend
type AssignmentClient struct {
	client *Client
}

var _ assignment.Client = (*AssignmentClient)(nil)

// NewAssignmentClient creates the plan-assignment client
func NewAssignmentClient(client *Client) *AssignmentClient {
	return &AssignmentClient{client: client}
}

// AssignPlan assigns a plan to a tenant
func (a *AssignmentClient) AssignPlan(ctx context.Context, tenantID string, req *assignment.AssignPlanRequest, receipt *assignment.Receipt) (*assignment.Result, error) {
	return a.submit(ctx, types.WizardModeAssign, tenantID, req, receipt)
}

// ExtendPlan extends the tenant's current plan
func (a *AssignmentClient) ExtendPlan(ctx context.Context, tenantID string, req *assignment.ExtendPlanRequest, receipt *assignment.Receipt) (*assignment.Result, error) {
	return a.submit(ctx, types.WizardModeExtend, tenantID, req, receipt)
}

func (a *AssignmentClient) submit(ctx context.Context, mode types.WizardMode, tenantID string, req *assignment.PlanRequest, receipt *assignment.Receipt) (*assignment.Result, error) {
	if types.IsBlank(tenantID) {
		return nil, ierr.NewError("tenant id is required").
			WithHint("Tenant ID is required").
			Mark(ierr.ErrValidation)
	}
	if req == nil {
		return nil, ierr.NewError("request is required").
			WithHint("The plan request is missing").
			Mark(ierr.ErrValidation)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid request data").
			Mark(ierr.ErrSystem)
	}

	body, contentType := payload, "application/json"
	if receipt != nil {
		body, contentType, err = encodeMultipart(payload, receipt)
		if err != nil {
			return nil, err
		}
	}

	endpoint := fmt.Sprintf("/tenants/%s/plans/%s", url.PathEscape(tenantID), mode)

	a.client.logger.Infow("submitting plan request",
		"tenant_id", tenantID,
		"plan_id", req.PlanID,
		"mode", mode,
		"with_receipt", receipt != nil)

	// submissions are never retried
	env, err := a.client.makeRequest(httpclient.WithoutRetry(ctx), http.MethodPost, endpoint, body, contentType)
	if err != nil {
		if _, ok := httpclient.IsHTTPError(err); ok {
			return nil, assignment.NewAPIError(statusOf(err), env.errorMessage())
		}
		return nil, ierr.WithError(err).
			WithHint("The plan-assignment service could not be reached").
			Mark(ierr.ErrHTTPClient)
	}

	if !env.Success {
		return nil, assignment.NewAPIError(http.StatusOK, env.errorMessage())
	}

	result := &assignment.Result{Success: true}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &result.Data); err != nil {
			// the assignment went through, only the echo is unreadable
			a.client.logger.Warnw("failed to decode plan request result", "error", err)
		}
	}
	return result, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeMultipart sends the JSON payload and the receipt as two parts
func encodeMultipart(payload []byte, receipt *assignment.Receipt) ([]byte, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	payloadHeader := textproto.MIMEHeader{}
	payloadHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, payloadPartName))
	payloadHeader.Set("Content-Type", "application/json")
	part, err := w.CreatePart(payloadHeader)
	if err == nil {
		_, err = part.Write(payload)
	}
	if err != nil {
		return nil, "", ierr.WithError(err).
			WithHint("Failed to encode the plan request").
			Mark(ierr.ErrSystem)
	}

	contentType := receipt.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	fileHeader := textproto.MIMEHeader{}
	fileHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		receiptPartName, quoteEscaper.Replace(receipt.FileName)))
	fileHeader.Set("Content-Type", contentType)
	part, err = w.CreatePart(fileHeader)
	if err == nil {
		_, err = part.Write(receipt.Data)
	}
	if err == nil {
		err = w.Close()
	}
	if err != nil {
		return nil, "", ierr.WithError(err).
			WithHint("Failed to encode the receipt").
			Mark(ierr.ErrSystem)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
