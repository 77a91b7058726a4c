package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Метрики
var (
	opsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "traffic_operations_total",
		Help: "Запросы генератора к restboard по операции и коду ответа",
	}, []string{"operation", "code"})

	opsDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "traffic_operation_duration_seconds",
		Help:    "Длительность запроса генератора в секундах",
		Buckets: []float64{0.01, 0.05, 0.1, 0.3, 0.5, 1, 2},
	}, []string{"operation"})
)

// статусы, по которым генератор ведет каждый заказ
var lifecycle = []string{"Confirmed", "In Progress", "Dispatched", "Delivered", "Completed"}

var menu = []struct {
	name  string
	price string
}{
	{"Margherita", "9.50"},
	{"Pepperoni", "11.00"},
	{"Caesar Salad", "7.25"},
	{"Tiramisu", "5.00"},
	{"Lemonade", "2.50"},
}

type orderLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type orderCreate struct {
	CustomerName string      `json:"customer_name"`
	OrderLines   []orderLine `json:"order_lines"`
	TotalAmount  string      `json:"total_amount"`
}

type createdOrder struct {
	ID string `json:"id"`
}

type generator struct {
	client *http.Client
	target string
}

func (g *generator) do(ctx context.Context, operation, method, url string, body any, out any) error {
	start := time.Now()
	defer func() {
		opsDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		opsCounter.WithLabelValues(operation, "error").Inc()
		return err
	}
	defer resp.Body.Close()

	opsCounter.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s: unexpected status %d", operation, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// simulateOrder оформляет заказ и проводит его по статусам.
// Примерно каждый десятый заказ отменяется после подтверждения.
func (g *generator) simulateOrder(ctx context.Context, tenantID string, step time.Duration) error {
	item := menu[rand.IntN(len(menu))]
	qty := 1 + rand.IntN(3)

	price, err := strconv.ParseFloat(item.price, 64)
	if err != nil {
		return err
	}

	order := orderCreate{
		CustomerName: fmt.Sprintf("Guest %04d", rand.IntN(10000)),
		OrderLines:   []orderLine{{Name: item.name, Quantity: qty, Price: item.price}},
		TotalAmount:  strconv.FormatFloat(price*float64(qty), 'f', 2, 64),
	}

	var created createdOrder
	url := fmt.Sprintf("%s/tenants/%s/orders", g.target, tenantID)
	if err := g.do(ctx, "place_order", http.MethodPost, url, order, &created); err != nil {
		return err
	}

	statuses := lifecycle
	if rand.IntN(10) == 0 {
		statuses = []string{"Confirmed", "Cancelled"}
	}

	statusURL := fmt.Sprintf("%s/tenants/%s/orders/%s/status", g.target, tenantID, created.ID)
	for _, status := range statuses {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(step):
		}
		if err := g.do(ctx, "update_status", http.MethodPatch, statusURL, map[string]string{"status": status}, nil); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	target := flag.String("target", "http://localhost:8080", "restboard base url")
	tenants := flag.Int("tenants", 3, "number of tenants to generate traffic for")
	interval := flag.Duration("interval", 5*time.Second, "pause between new orders per tenant")
	step := flag.Duration("step", 2*time.Second, "pause between status changes of one order")
	metricsAddr := flag.String("metrics", ":2112", "metrics listen address")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server: %v", err)
			os.Exit(1)
		}
	}()

	g := &generator{
		client: &http.Client{Timeout: 10 * time.Second},
		target: *target,
	}

	for i := range *tenants {
		tenantID := fmt.Sprintf("tenant-%d", i+1)
		go func() {
			ticker := time.NewTicker(*interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					go func() {
						if err := g.simulateOrder(ctx, tenantID, *step); err != nil {
							log.Printf("%s: %v", tenantID, err)
						}
					}()
				}
			}
		}()
	}

	<-ctx.Done()
}
