// Package backend adaptador HTTP hacia la API REST de inventario. Es la única fuente de
// verdad: aquí no se persiste nada.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-admin/internal/application/ports"
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa InventoryBackend.
var _ ports.InventoryBackend = (*Client)(nil)

const (
	maxBodyBytes     = 8 << 20
	headerRequestID  = "X-Request-ID"
	defaultTimeout   = 20 * time.Second
	contentTypeJSON  = "application/json"
	authHeaderPrefix = "Bearer "
)

// Client cliente de la API de inventario.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el adaptador. timeout <= 0 usa 20 s.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Component("backend"),
	}
}

// envelope forma común de todas las respuestas: {success, data, message}.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`

	empty bool
}

// ── Transacciones ─────────────────────────────────────────────────────────────

func (c *Client) ListTransactions(ctx context.Context) ([]entity.MovementRecord, error) {
	return getList[entity.MovementRecord](ctx, c, "/inventory-transactions")
}

func (c *Client) ListProductTransactions(ctx context.Context, productID int64) ([]entity.MovementRecord, error) {
	return getList[entity.MovementRecord](ctx, c, "/inventory-transactions/product/"+strconv.FormatInt(productID, 10))
}

// ── Agregados ─────────────────────────────────────────────────────────────────

func (c *Client) GetSale(ctx context.Context, saleID int64) (*entity.Sale, error) {
	return getOne[entity.Sale](ctx, c, "/sales/"+strconv.FormatInt(saleID, 10))
}

func (c *Client) GetDelivery(ctx context.Context, deliveryID int64) (*entity.Delivery, error) {
	return getOne[entity.Delivery](ctx, c, "/deliveries/"+strconv.FormatInt(deliveryID, 10))
}

func (c *Client) GetInventory(ctx context.Context, inventoryID int64) (*entity.Inventory, error) {
	return getOne[entity.Inventory](ctx, c, "/inventories/"+strconv.FormatInt(inventoryID, 10))
}

// ── Comandos de inventario ────────────────────────────────────────────────────

func (c *Client) ConfirmInventory(ctx context.Context, inventoryID int64) error {
	_, err := c.mutate(ctx, http.MethodPatch, "/inventories/"+strconv.FormatInt(inventoryID, 10)+"/confirm", nil)
	return err
}

func (c *Client) DeleteInventory(ctx context.Context, inventoryID int64) error {
	_, err := c.mutate(ctx, http.MethodDelete, "/inventories/"+strconv.FormatInt(inventoryID, 10), nil)
	return err
}

// ── Stock ─────────────────────────────────────────────────────────────────────

func (c *Client) ListWarehouseStock(ctx context.Context, productID int64) ([]entity.WarehouseStock, error) {
	return getList[entity.WarehouseStock](ctx, c, withProduct("/warehouse-stocks", productID))
}

func (c *Client) ListBranchStock(ctx context.Context, productID int64) ([]entity.BranchStock, error) {
	return getList[entity.BranchStock](ctx, c, withProduct("/branch-stocks", productID))
}

func withProduct(path string, productID int64) string {
	if productID <= 0 {
		return path
	}
	return path + "?" + url.Values{"productId": {strconv.FormatInt(productID, 10)}}.Encode()
}

// ── Catálogo y pedidos a proveedor ────────────────────────────────────────────

func (c *Client) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return getList[entity.Product](ctx, c, "/products")
}

func (c *Client) ListSupplierOrders(ctx context.Context) ([]entity.SupplierOrder, error) {
	return getList[entity.SupplierOrder](ctx, c, "/supplier-orders")
}

func (c *Client) GetSupplierOrder(ctx context.Context, id int64) (*entity.SupplierOrder, error) {
	return getOne[entity.SupplierOrder](ctx, c, "/supplier-orders/"+strconv.FormatInt(id, 10))
}

func (c *Client) CreateSupplierOrder(ctx context.Context, order *entity.SupplierOrder) (*entity.SupplierOrder, error) {
	return c.writeOrder(ctx, http.MethodPost, "/supplier-orders", order)
}

func (c *Client) UpdateSupplierOrder(ctx context.Context, id int64, order *entity.SupplierOrder) (*entity.SupplierOrder, error) {
	return c.writeOrder(ctx, http.MethodPut, "/supplier-orders/"+strconv.FormatInt(id, 10), order)
}

func (c *Client) DeleteSupplierOrder(ctx context.Context, id int64) error {
	_, err := c.mutate(ctx, http.MethodDelete, "/supplier-orders/"+strconv.FormatInt(id, 10), nil)
	return err
}

// writeOrder si el backend no devuelve el pedido se responde con el enviado.
func (c *Client) writeOrder(ctx context.Context, method, path string, order *entity.SupplierOrder) (*entity.SupplierOrder, error) {
	data, err := c.mutate(ctx, method, path, order)
	if err != nil {
		return nil, err
	}
	if isNull(data) {
		return order, nil
	}
	var out entity.SupplierOrder
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("backend: decodificar pedido: %w", err)
	}
	return &out, nil
}

// ── Protocolo ─────────────────────────────────────────────────────────────────

func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	status, env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 || !env.Success {
		return nil, fmt.Errorf("%w: GET %s: HTTP %d %s", domain.ErrBackendUnavailable, path, status, env.Message)
	}
	out := make([]T, 0)
	if isNull(env.Data) {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, fmt.Errorf("%w: GET %s: data no es una lista: %v", domain.ErrBackendUnavailable, path, err)
	}
	return out, nil
}

func getOne[T any](ctx context.Context, c *Client, path string) (*T, error) {
	status, env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("%w: GET %s", domain.ErrEntityGone, path)
	case status < 200 || status >= 300:
		return nil, fmt.Errorf("%w: GET %s: HTTP %d", domain.ErrBackendUnavailable, path, status)
	case !env.Success || isNull(env.Data):
		return nil, fmt.Errorf("%w: GET %s %s", domain.ErrEntityGone, path, env.Message)
	}
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", domain.ErrBackendUnavailable, path, err)
	}
	return &out, nil
}

func (c *Client) mutate(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	status, env, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s %s", domain.ErrEntityGone, method, path)
	case status == http.StatusNoContent, status >= 200 && status < 300 && env.empty:
		return nil, nil
	case status < 200 || status >= 300 || !env.Success:
		return nil, fmt.Errorf("%w: %s %s: HTTP %d %s", domain.ErrBackendUnavailable, method, path, status, env.Message)
	}
	return env.Data, nil
}

// do ejecuta la petición reenviando el token del operador. Errores de transporte o de
// decodificación del sobre son ErrBackendUnavailable.
func (c *Client) do(ctx context.Context, method, path string, body any) (int, envelope, error) {
	var env envelope
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, env, fmt.Errorf("backend: serializar request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, env, fmt.Errorf("backend: crear HTTP request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(headerRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if token := ports.TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", authHeaderPrefix+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("backend no disponible")
		if ctx.Err() != nil {
			return 0, env, fmt.Errorf("%w: %s %s: %v", domain.ErrBackendUnavailable, method, path, ctx.Err())
		}
		return 0, env, fmt.Errorf("%w: %s %s: %v", domain.ErrBackendUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, env, fmt.Errorf("%w: leer respuesta: %v", domain.ErrBackendUnavailable, err)
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Str("request_id", requestID).
		Msg("backend")

	if len(bytes.TrimSpace(raw)) == 0 {
		env.empty = true
		return resp.StatusCode, env, nil
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode == http.StatusNotFound {
			return resp.StatusCode, env, nil
		}
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return resp.StatusCode, env, fmt.Errorf("%w: %s %s: respuesta no es JSON (HTTP %d)", domain.ErrBackendUnavailable, method, path, resp.StatusCode)
		}
		return resp.StatusCode, env, fmt.Errorf("%w: %s %s: %v", domain.ErrBackendUnavailable, method, path, err)
	}
	return resp.StatusCode, env, nil
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}
