package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/actions"
	errx "github.com/Chative-core-poc-v1/wa-assistant/internal/core/error"
	logx "github.com/Chative-core-poc-v1/wa-assistant/pkg/logger"
)

type User struct {
	PhoneNumber  string    `json:"phone_number"`
	CarPlateNo   string    `json:"car_plate_no"`
	RegisteredAt time.Time `json:"registered_at"`
}

type UserRepository interface {
	Save(ctx context.Context, u User) error
	Get(ctx context.Context, phoneNumber string) (User, bool, error)
}

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]User)}
}

func (r *MemoryUserRepository) Save(_ context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.PhoneNumber] = u
	return nil
}

func (r *MemoryUserRepository) Get(_ context.Context, phoneNumber string) (User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[phoneNumber]
	return u, ok, nil
}

var _ UserRepository = (*MemoryUserRepository)(nil)

// Registrar forwards a registration to the external registration service.
type Registrar interface {
	Register(ctx context.Context, phoneNumber, carPlateNo string) (string, error)
}

// HTTPRegistrar POSTs {phone_number, car_plate_no} as JSON to URL.
type HTTPRegistrar struct {
	URL        string
	HTTPClient *http.Client
}

func NewHTTPRegistrar(url string) *HTTPRegistrar {
	return &HTTPRegistrar{URL: url, HTTPClient: &http.Client{Timeout: 15 * time.Second}}
}

type registrationRequest struct {
	PhoneNumber string `json:"phone_number"`
	CarPlateNo  string `json:"car_plate_no"`
}

func (r *HTTPRegistrar) Register(ctx context.Context, phoneNumber, carPlateNo string) (string, error) {
	body, err := json.Marshal(registrationRequest{PhoneNumber: phoneNumber, CarPlateNo: carPlateNo})
	if err != nil {
		return "", fmt.Errorf("marshal registration: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create registration request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return "", errx.Upstream(fmt.Errorf("registration request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", errx.Upstream(fmt.Errorf("read registration response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errx.Upstream(fmt.Errorf("registration service status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))))
	}
	return strings.TrimSpace(string(respBody)), nil
}

// ===================================
// register_user
// ===================================

type RegisterUserInput struct {
	PhoneNumber actions.FlexString `json:"phone_number"`
	CarPlateNo  string             `json:"car_plate_no"`
}

// RegisterUser stores the user locally and, when registrar is non-nil, calls
// through to the registration service.
func RegisterUser(users UserRepository, registrar Registrar) actions.Action {
	return actions.New(ToolRegisterUser,
		"Registers a user by sending their phone number and car plate number to an external registration service.",
		[]actions.Param{
			{Name: "phone_number", Type: schema.String, Desc: "The phone number of the user to be registered.", Required: true},
			{Name: "car_plate_no", Type: schema.String, Desc: "The car plate number of the user's vehicle.", Required: true},
		},
		func(ctx context.Context, in RegisterUserInput) (any, error) {
			phone := strings.TrimSpace(string(in.PhoneNumber))
			plate := strings.ToUpper(strings.TrimSpace(in.CarPlateNo))
			if phone == "" || plate == "" {
				return nil, fmt.Errorf("phone_number and car_plate_no are required")
			}

			var remote string
			if registrar != nil {
				msg, err := registrar.Register(ctx, phone, plate)
				if err != nil {
					return nil, err
				}
				remote = msg
			}

			if err := users.Save(ctx, User{PhoneNumber: phone, CarPlateNo: plate, RegisteredAt: time.Now().UTC()}); err != nil {
				return nil, err
			}
			logx.Info().Str("phone_number", phone).Str("car_plate_no", plate).Msg("User registered")

			out := fmt.Sprintf("User with phone number %s and car plate %s registered successfully.", phone, plate)
			if remote != "" {
				out += " Registration service response: " + remote
			}
			return out, nil
		},
	)
}
