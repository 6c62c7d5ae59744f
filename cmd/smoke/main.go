package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// End-to-end exercise of the running API: register, login, create a session,
// upload text, chat, generate a quiz, delete the session.

var baseURL = "http://localhost:3000/api"

func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

func sendJSON(method, path, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = strings.NewReader(string(jsonBody))
	}

	req, err := http.NewRequest(method, baseURL+path, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func sendForm(method, path, token string, form url.Values) (*http.Response, []byte, error) {
	req, err := http.NewRequest(method, baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func decodeData(body []byte) map[string]interface{} {
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	_ = json.Unmarshal(body, &envelope)
	return envelope.Data
}

func fail(format string, args ...interface{}) {
	color.Red(format, args...)
	os.Exit(1)
}

func main() {
	if v := os.Getenv("SMOKE_BASE_URL"); v != "" {
		baseURL = v
	}

	color.Cyan("🚀 Starting tutoring API smoke run\n")

	email := fmt.Sprintf("smoke-%d@example.com", time.Now().UnixNano())

	color.Yellow("\n1. Register %s", email)
	resp, body, err := sendJSON("POST", "/auth/register", "", map[string]interface{}{
		"email":    email,
		"name":     "Smoke Runner",
		"password": "smoke-password-1",
	})
	if err != nil {
		fail("Failed: %v", err)
	}
	color.Green("Status: %s", resp.Status)

	color.Yellow("\n2. Login")
	resp, body, err = sendForm("POST", "/auth/login", "", url.Values{
		"username": {email},
		"password": {"smoke-password-1"},
	})
	if err != nil {
		fail("Failed: %v", err)
	}
	color.Green("Status: %s", resp.Status)
	token, _ := decodeData(body)["access_token"].(string)
	if token == "" {
		fail("No access token in login response: %s", string(body))
	}

	color.Yellow("\n3. Create session")
	resp, body, err = sendJSON("POST", "/session/new", token, nil)
	if err != nil {
		fail("Failed: %v", err)
	}
	color.Green("Status: %s", resp.Status)
	sessionId, _ := decodeData(body)["session_id"].(string)
	if sessionId == "" {
		fail("No session id in response: %s", string(body))
	}
	color.Cyan("Session: %s", sessionId)

	color.Yellow("\n4. Upload text snippet")
	resp, body, err = sendForm("POST", "/session/"+sessionId+"/upload", token, url.Values{
		"text": {"Photosynthesis converts light energy into chemical energy in plants."},
	})
	if err != nil {
		fail("Failed: %v", err)
	}
	color.Green("Status: %s", resp.Status)

	color.Yellow("\n5. Send chat message")
	resp, body, err = sendForm("POST", "/session/"+sessionId+"/message", token, url.Values{
		"text": {"Explain photosynthesis in one sentence."},
	})
	if err != nil {
		fail("Failed: %v", err)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decodeData(body))

	color.Yellow("\n6. Generate quiz")
	resp, body, err = sendForm("POST", "/session/"+sessionId+"/generate/quiz", token, url.Values{
		"text":          {"Photosynthesis basics"},
		"num_questions": {"3"},
		"difficulty":    {"easy"},
	})
	if err != nil {
		fail("Failed: %v", err)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decodeData(body))

	color.Yellow("\n7. Delete session")
	resp, _, err = sendJSON("DELETE", "/session/"+sessionId, token, nil)
	if err != nil {
		fail("Failed: %v", err)
	}
	color.Green("Status: %s", resp.Status)

	color.Cyan("\n✅ Smoke run complete")
}
