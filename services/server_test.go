package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/upcv/backend/models"
	"github.com/upcv/backend/repository"
)

func newTestServer(t *testing.T) (*httptest.Server, *repository.GORMRepository) {
	t.Helper()

	db, err := OpenDatabase(DatabaseConfig{
		Driver:       "sqlite",
		URL:          "file::memory:?_pragma=foreign_keys(1)",
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("OpenDatabase: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })

	repo := repository.NewGORMRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	config := &Config{Environment: "test", JWT: JWTConfig{Secret: "test-secret"}}
	srv := httptest.NewServer(NewServer(config, repo).SetupRoutes())
	t.Cleanup(srv.Close)
	return srv, repo
}

// call sends body as JSON and decodes the JSON answer into out when given.
func call(t *testing.T, srv *httptest.Server, method, path, token string, body, out interface{}) int {
	t.Helper()

	var reader bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reader).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, srv.URL+path, &reader)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func signup(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	status := call(t, srv, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":     email,
		"password":  "correct horse",
		"full_name": "Test User",
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("signup status = %d, expected 201", status)
	}
	if resp.AccessToken == "" {
		t.Fatal("signup returned no access token")
	}
	return resp.AccessToken
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]string
	if status := call(t, srv, http.MethodGet, "/health", "", nil, &body); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["status"] != "ok" || body["database"] != "up" {
		t.Errorf("body = %v", body)
	}
}

func TestAuthFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signup(t, srv, "ada@example.com")

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		body     interface{}
		expected int
	}{
		{name: "Duplicate signup", method: http.MethodPost, path: "/api/v1/auth/signup",
			body: map[string]string{"email": "ADA@example.com", "password": "correct horse"}, expected: http.StatusConflict},
		{name: "Weak password", method: http.MethodPost, path: "/api/v1/auth/signup",
			body: map[string]string{"email": "alan@example.com", "password": "short"}, expected: http.StatusBadRequest},
		{name: "Invalid email", method: http.MethodPost, path: "/api/v1/auth/signup",
			body: map[string]string{"email": "alan", "password": "correct horse"}, expected: http.StatusBadRequest},
		{name: "Login", method: http.MethodPost, path: "/api/v1/auth/login",
			body: map[string]string{"email": "ada@example.com", "password": "correct horse"}, expected: http.StatusOK},
		{name: "Wrong password", method: http.MethodPost, path: "/api/v1/auth/login",
			body: map[string]string{"email": "ada@example.com", "password": "wrong horse"}, expected: http.StatusUnauthorized},
		{name: "Me with token", method: http.MethodGet, path: "/api/v1/auth/me", token: token, expected: http.StatusOK},
		{name: "Me without token", method: http.MethodGet, path: "/api/v1/auth/me", expected: http.StatusUnauthorized},
		{name: "Records without token", method: http.MethodGet, path: "/api/v1/skills", expected: http.StatusUnauthorized},
		{name: "Garbage token", method: http.MethodGet, path: "/api/v1/skills", token: "not-a-jwt", expected: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status := call(t, srv, tt.method, tt.path, tt.token, tt.body, nil); status != tt.expected {
				t.Errorf("status = %d, expected %d", status, tt.expected)
			}
		})
	}
}

type educationBody struct {
	ID          uint    `json:"id"`
	Degree      string  `json:"degree"`
	Institution string  `json:"institution"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Description string  `json:"description"`
}

func TestRecordCRUD(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signup(t, srv, "ada@example.com")

	var created struct {
		Record educationBody `json:"record"`
	}
	status := call(t, srv, http.MethodPost, "/api/v1/education", token, map[string]interface{}{
		"degree":      "B.Sc.",
		"institution": "State University",
		"start_date":  "2012-09-01",
		"end_date":    "2016-06-30",
		"description": "Computer science",
	}, &created)
	if status != http.StatusCreated {
		t.Fatalf("create status = %d", status)
	}
	id := strconv.FormatUint(uint64(created.Record.ID), 10)

	status = call(t, srv, http.MethodPost, "/api/v1/education", token, map[string]interface{}{
		"degree":      "M.Sc.",
		"institution": "State University",
		"start_date":  "2016-09-01",
		"description": "Distributed systems",
	}, nil)
	if status != http.StatusCreated {
		t.Fatalf("create status = %d", status)
	}

	var list struct {
		Records []educationBody `json:"records"`
		Count   int             `json:"count"`
	}
	if status := call(t, srv, http.MethodGet, "/api/v1/education", token, nil, &list); status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if list.Count != 2 || list.Records[0].Degree != "M.Sc." || list.Records[1].Degree != "B.Sc." {
		t.Errorf("list = %+v", list)
	}
	if list.Records[0].EndDate != nil {
		t.Errorf("M.Sc. end_date = %v, expected null", *list.Records[0].EndDate)
	}

	var updated struct {
		Record educationBody `json:"record"`
	}
	status = call(t, srv, http.MethodPut, "/api/v1/education/"+id, token, map[string]interface{}{
		"degree": "B.Sc. (Hons)",
	}, &updated)
	if status != http.StatusOK {
		t.Fatalf("update status = %d", status)
	}
	if updated.Record.Degree != "B.Sc. (Hons)" || updated.Record.Institution != "State University" {
		t.Errorf("updated = %+v", updated.Record)
	}

	var invalid errorResponse
	status = call(t, srv, http.MethodPut, "/api/v1/education/"+id, token, map[string]interface{}{
		"end_date": "2010-01-01",
	}, &invalid)
	if status != http.StatusBadRequest {
		t.Fatalf("invalid update status = %d, expected 400", status)
	}
	if len(invalid.Fields) != 1 || invalid.Fields[0].Field != "end_date" {
		t.Errorf("fields = %+v", invalid.Fields)
	}

	var blank errorResponse
	status = call(t, srv, http.MethodPut, "/api/v1/education/"+id, token, map[string]interface{}{
		"end_date": "",
	}, &blank)
	if status != http.StatusBadRequest || blank.Error != "Invalid request body" {
		t.Errorf("empty end_date: status = %d, error = %q, expected a 400 malformed body", status, blank.Error)
	}

	if status := call(t, srv, http.MethodDelete, "/api/v1/education/"+id, token, nil, nil); status != http.StatusOK {
		t.Fatalf("delete status = %d", status)
	}
	if status := call(t, srv, http.MethodGet, "/api/v1/education/"+id, token, nil, nil); status != http.StatusNotFound {
		t.Errorf("get after delete status = %d, expected 404", status)
	}
	if status := call(t, srv, http.MethodGet, "/api/v1/education/abc", token, nil, nil); status != http.StatusBadRequest {
		t.Errorf("bad id status = %d, expected 400", status)
	}
}

func TestRecordValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signup(t, srv, "ada@example.com")

	info := map[string]interface{}{
		"full_name":     "Ada Lovelace",
		"date_of_birth": "1815-12-10",
		"phone_number":  "+44 20 0000",
		"address":       "London",
	}

	tests := []struct {
		name     string
		path     string
		body     interface{}
		expected int
	}{
		{name: "Personal information", path: "/api/v1/personal-information", body: info, expected: http.StatusCreated},
		{name: "Second personal information", path: "/api/v1/personal-information", body: info, expected: http.StatusBadRequest},
		{name: "Malformed URL", path: "/api/v1/projects", body: map[string]string{
			"project_name": "upcv", "start_date": "2023-01-01", "description": "CV", "project_url": "not a url",
		}, expected: http.StatusBadRequest},
		{name: "Malformed date", path: "/api/v1/certifications", body: map[string]string{
			"certification_name": "CKA", "certifying_authority": "CNCF", "date_received": "May 2020", "description": "k8s",
		}, expected: http.StatusBadRequest},
		{name: "Missing fields", path: "/api/v1/work-experience", body: map[string]string{}, expected: http.StatusBadRequest},
		{name: "Skill", path: "/api/v1/skills", body: map[string]string{
			"skill_name": "Go", "skill_level": "Expert",
		}, expected: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status := call(t, srv, http.MethodPost, tt.path, token, tt.body, nil); status != tt.expected {
				t.Errorf("status = %d, expected %d", status, tt.expected)
			}
		})
	}
}

func TestRecordOwnership(t *testing.T) {
	srv, _ := newTestServer(t)
	ada := signup(t, srv, "ada@example.com")
	alan := signup(t, srv, "alan@example.com")

	var created struct {
		Record struct {
			ID uint `json:"id"`
		} `json:"record"`
	}
	status := call(t, srv, http.MethodPost, "/api/v1/skills", ada, map[string]string{
		"skill_name": "Go", "skill_level": "Expert",
	}, &created)
	if status != http.StatusCreated {
		t.Fatalf("create status = %d", status)
	}
	path := "/api/v1/skills/" + strconv.FormatUint(uint64(created.Record.ID), 10)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			body := map[string]string{"skill_level": "Novice"}
			if status := call(t, srv, method, path, alan, body, nil); status != http.StatusNotFound {
				t.Errorf("status = %d, expected 404", status)
			}
		})
	}

	var list struct {
		Count int `json:"count"`
	}
	call(t, srv, http.MethodGet, "/api/v1/skills", alan, nil, &list)
	if list.Count != 0 {
		t.Errorf("other user sees %d skills", list.Count)
	}

	var own struct {
		Record struct {
			SkillLevel string `json:"skill_level"`
		} `json:"record"`
	}
	call(t, srv, http.MethodGet, path, ada, nil, &own)
	if own.Record.SkillLevel != "Expert" {
		t.Errorf("skill_level = %q, expected Expert", own.Record.SkillLevel)
	}
}

func TestDeleteAccount(t *testing.T) {
	srv, repo := newTestServer(t)
	token := signup(t, srv, "ada@example.com")

	if status := call(t, srv, http.MethodPost, "/api/v1/skills", token, map[string]string{
		"skill_name": "Go", "skill_level": "Expert",
	}, nil); status != http.StatusCreated {
		t.Fatalf("create status = %d", status)
	}

	var me struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	call(t, srv, http.MethodGet, "/api/v1/auth/me", token, nil, &me)

	if status := call(t, srv, http.MethodDelete, "/api/v1/auth/me", token, nil, nil); status != http.StatusOK {
		t.Fatalf("delete account status = %d", status)
	}

	skills, err := repo.Skills.ListAll(context.Background(), me.User.ID)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(skills) != 0 {
		t.Errorf("%d skills left after account deletion", len(skills))
	}
	if status := call(t, srv, http.MethodGet, "/api/v1/auth/me", token, nil, nil); status != http.StatusUnauthorized {
		t.Errorf("me after deletion status = %d, expected 401", status)
	}
}

func TestGetCVEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)
	if err := NewDatabaseSeeder(repo).SeedDatabase(context.Background()); err != nil {
		t.Fatalf("SeedDatabase: %v", err)
	}
	// seeding twice is a no-op
	if err := NewDatabaseSeeder(repo).SeedDatabase(context.Background()); err != nil {
		t.Fatalf("second SeedDatabase: %v", err)
	}

	var login struct {
		AccessToken string `json:"access_token"`
	}
	status := call(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": demoEmail, "password": "password",
	}, &login)
	if status != http.StatusOK {
		t.Fatalf("login status = %d", status)
	}

	var resp struct {
		CV struct {
			PersonalInformation *struct {
				FullName string `json:"full_name"`
			} `json:"personal_information"`
			Education []educationBody `json:"education"`
			Skills    []struct {
				SkillName string `json:"skill_name"`
			} `json:"skills"`
			Projects []struct{} `json:"projects"`
		} `json:"cv"`
	}
	if status := call(t, srv, http.MethodGet, "/api/v1/cv", login.AccessToken, nil, &resp); status != http.StatusOK {
		t.Fatalf("cv status = %d", status)
	}

	if resp.CV.PersonalInformation == nil || resp.CV.PersonalInformation.FullName != "Demo User" {
		t.Errorf("personal_information = %+v", resp.CV.PersonalInformation)
	}
	if len(resp.CV.Education) != 2 || resp.CV.Education[0].Degree != "M.Sc. Distributed Systems" {
		t.Errorf("education = %+v", resp.CV.Education)
	}
	if len(resp.CV.Skills) != 3 || resp.CV.Skills[0].SkillName != "Go" || resp.CV.Skills[1].SkillName != "Kubernetes" {
		t.Errorf("skills = %+v", resp.CV.Skills)
	}
	if len(resp.CV.Projects) != 1 {
		t.Errorf("projects = %d, expected 1", len(resp.CV.Projects))
	}
}

func TestSeedDatabaseIsAtomic(t *testing.T) {
	ctx := context.Background()
	_, repo := newTestServer(t)

	seeder := NewDatabaseSeeder(repo)
	seeder.seedCV = func(ctx context.Context, repo *repository.GORMRepository, userID string) error {
		if err := repo.Skills.Create(ctx, userID, &models.Skill{SkillName: "Go", SkillLevel: "Expert"}); err != nil {
			return err
		}
		return errors.New("disk full")
	}

	if err := seeder.SeedDatabase(ctx); err == nil {
		t.Fatal("SeedDatabase returned nil error")
	}
	if _, err := repo.GetUserByEmail(ctx, demoEmail); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("demo user survived a failed seed: %v", err)
	}

	// the next run starts from scratch
	if err := NewDatabaseSeeder(repo).SeedDatabase(ctx); err != nil {
		t.Fatalf("SeedDatabase: %v", err)
	}
	user, err := repo.GetUserByEmail(ctx, demoEmail)
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	cv, err := repo.GetCV(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetCV: %v", err)
	}
	if cv.PersonalInformation == nil || len(cv.Skills) != 3 {
		t.Errorf("incomplete CV after reseeding: %+v", cv)
	}
}
