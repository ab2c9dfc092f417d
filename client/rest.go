package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"chat-hub/domain"
)

// REST is the bootstrap client: auth, room listing and history pages.
// All live traffic goes through Socket instead.
type REST struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewREST(baseURL string) *REST {
	return &REST{baseURL: baseURL, http: http.DefaultClient}
}

type Credentials struct {
	Token string         `json:"token"`
	User  domain.UserRef `json:"user"`
}

func (r *REST) Register(username, email, password string) (Credentials, error) {
	return r.authCall("/auth/register", map[string]string{
		"username": username, "email": email, "password": password,
	})
}

func (r *REST) Login(username, password string) (Credentials, error) {
	return r.authCall("/auth/login", map[string]string{
		"username": username, "password": password,
	})
}

func (r *REST) authCall(path string, body map[string]string) (Credentials, error) {
	var creds Credentials
	if err := r.post(path, body, &creds); err != nil {
		return Credentials{}, err
	}
	r.token = creds.Token
	return creds, nil
}

func (r *REST) ListRooms() ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.get("/rooms", &rooms)
	return rooms, err
}

func (r *REST) CreateRoom(name string, kind domain.RoomKind) (domain.Room, error) {
	var room domain.Room
	err := r.post("/rooms", map[string]string{"name": name, "kind": string(kind)}, &room)
	return room, err
}

func (r *REST) GetMessages(roomID string, page, limit int) ([]domain.Message, error) {
	var messages []domain.Message
	path := fmt.Sprintf("/rooms/%s/messages?page=%d&limit=%d", roomID, page, limit)
	err := r.get(path, &messages)
	return messages, err
}

func (r *REST) JoinRoom(roomID string) error {
	return r.post("/rooms/"+roomID+"/join", struct{}{}, nil)
}

func (r *REST) get(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return err
	}
	return r.do(req, out)
}

func (r *REST) post(path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, r.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return r.do(req, out)
}

func (r *REST) do(req *http.Request, out any) error {
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return fmt.Errorf("%s %s: %d %s", req.Method, req.URL.Path, resp.StatusCode, body.Message)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
