package nav

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/go-ntlmssp"
	"github.com/google/uuid"

	"github.com/jhoicas/nav-gateway/internal/domain"
	"github.com/jhoicas/nav-gateway/pkg/logger"
)

// defaultTimeout timeout fijo de red. NAV puede tardar en publicar documentos
// grandes; no se reintenta nunca desde aquí.
const defaultTimeout = 120 * time.Second

// maxResponseBytes límite de lectura del cuerpo de respuesta.
const maxResponseBytes = 4 << 20

// transport emite el POST SOAP con autenticación NTLM. Las credenciales se
// ligan en la construcción y jamás aparecen en los logs.
type transport struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	log        *logger.Logger
}

func newTransport(baseURL, username, password string, log *logger.Logger) *transport {
	return &transport{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Transport: ntlmssp.Negotiator{
				RoundTripper: http.DefaultTransport,
			},
		},
		log: log,
	}
}

// send emite la operación contra el endpoint indicado (vacío → Codeunit/Gateway)
// y devuelve el cuerpo crudo. Un estado distinto de 200 es TransportError con
// el cuerpo completo, que es donde NAV explica el fallo.
func (t *transport) send(ctx context.Context, operation string, envelope []byte, endpoint string) ([]byte, error) {
	if endpoint == "" {
		endpoint = EndpointGateway
	}
	url := t.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	soapAction := fmt.Sprintf("%q", NsGateway+":"+operation)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(envelope))
	if err != nil {
		return nil, fmt.Errorf("nav: crear request %s: %w", operation, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", soapAction)
	req.SetBasicAuth(t.username, t.password)

	requestID := uuid.NewString()
	t.log.Info().
		Str("request_id", requestID).
		Str("operation", operation).
		Str("url", url).
		Str("soap_action", soapAction).
		Str("payload", string(envelope)).
		Msg("nav request")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("nav: %s cancelada o con timeout: %w", operation, ctx.Err())
		}
		return nil, fmt.Errorf("nav: llamada HTTP %s fallida: %w", operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("nav: leer respuesta de %s: %w", operation, err)
	}

	t.log.Info().
		Str("request_id", requestID).
		Str("operation", operation).
		Int("status_code", resp.StatusCode).
		Str("body", string(raw)).
		Msg("nav response")

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.TransportError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}
