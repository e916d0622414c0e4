package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second},
		TokenFunc(func() string { return token }))
}

func writeEnvelope(w http.ResponseWriter, status int, env map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

func TestLoginReturnsToken(t *testing.T) {
	var gotPath, gotBody string
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		writeEnvelope(w, http.StatusOK, map[string]any{
			"message": "login successful",
			"success": true,
			"token":   "jwt-abc",
		})
	})

	token, err := c.Login(context.Background(), LoginInput{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "jwt-abc" {
		t.Errorf("token = %q, want jwt-abc", token)
	}
	if gotPath != "/auth/login" {
		t.Errorf("path = %q, want /auth/login", gotPath)
	}
	if gotBody != `{"email":"a@b.c","password":"pw"}` {
		t.Errorf("body = %q", gotBody)
	}
}

func TestLoginWithoutTokenInResponse(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{"success": true})
	})

	_, err := c.Login(context.Background(), LoginInput{Email: "a@b.c", Password: "pw"})
	var invErr *InvalidResponseError
	if !errors.As(err, &invErr) {
		t.Fatalf("err = %v, want InvalidResponseError", err)
	}
}

func TestSignup(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		writeEnvelope(w, http.StatusCreated, map[string]any{
			"success": true,
			"data":    map[string]any{"_id": "u1", "fullName": "Sara Ali", "email": "sara@example.com"},
		})
	})

	u, err := c.Signup(context.Background(), SignupInput{
		FullName:    "Sara Ali",
		Email:       "sara@example.com",
		Password:    "pw",
		ConfirmPass: "pw",
		PhoneNumber: "0100000000",
		ClassLevel:  "Grade 10",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if gotPath != "/auth/signup" {
		t.Errorf("path = %q, want /auth/signup", gotPath)
	}
	// The confirmation travels under the server's field name.
	if gotBody["cpassword"] != "pw" {
		t.Errorf("cpassword = %q, want pw", gotBody["cpassword"])
	}
	if u.ID != "u1" || u.FullName != "Sara Ali" {
		t.Errorf("user = %+v", u)
	}
}

func TestProtectedCallSendsTokenHeader(t *testing.T) {
	var gotToken string
	c := newTestClient(t, "jwt-abc", func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("token")
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"_id": "u1", "fullName": "Sara"},
		})
	})

	u, err := c.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if gotToken != "jwt-abc" {
		t.Errorf("token header = %q, want jwt-abc", gotToken)
	}
	if u.FullName != "Sara" {
		t.Errorf("fullName = %q, want Sara", u.FullName)
	}
}

func TestProtectedCallWithoutToken(t *testing.T) {
	requested := false
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		requested = true
	})

	_, err := c.CurrentUser(context.Background())
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
	if requested {
		t.Error("request was sent despite missing token")
	}
}

func TestUnauthorizedMapsToAuthRequired(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		c := newTestClient(t, "stale-jwt", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, status, map[string]any{
				"success": false,
				"message": "invalid token",
			})
		})

		_, err := c.Exams(context.Background())
		if !errors.Is(err, ErrAuthRequired) {
			t.Errorf("status %d: err = %v, want ErrAuthRequired", status, err)
		}
	}
}

func TestAlreadySubmittedByMessage(t *testing.T) {
	c := newTestClient(t, "jwt", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "You have already submitted this exam",
		})
	})

	_, err := c.StartExam(context.Background(), "e1")
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("err = %v, want ErrAlreadySubmitted", err)
	}
}

func TestServerErrorCarriesMessage(t *testing.T) {
	c := newTestClient(t, "jwt", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "exam is not available",
		})
	})

	_, err := c.StartExam(context.Background(), "e1")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err = %v, want RequestError", err)
	}
	if reqErr.Status != http.StatusBadRequest || reqErr.Msg != "exam is not available" {
		t.Errorf("RequestError = %+v", reqErr)
	}
}

func TestFailureEnvelopeWithOKStatus(t *testing.T) {
	// The server sometimes reports errors with success=false and a 200.
	c := newTestClient(t, "jwt", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "something went wrong",
		})
	})

	_, err := c.Exams(context.Background())
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err = %v, want RequestError", err)
	}
}

func TestNonJSONResponse(t *testing.T) {
	c := newTestClient(t, "jwt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway timeout</html>"))
	})

	_, err := c.Exams(context.Background())
	var invErr *InvalidResponseError
	if !errors.As(err, &invErr) {
		t.Fatalf("err = %v, want InvalidResponseError", err)
	}
}

func TestStartExamSessionID(t *testing.T) {
	var gotPath string
	c := newTestClient(t, "jwt", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"exam": map[string]any{
					"_id":       "e1",
					"title":     "Algebra",
					"duration":  30,
					"questions": []any{"q1", "q2"},
				},
				"startTime": "2026-09-01T10:00:00Z",
				"endTime":   "2026-09-01T10:30:00Z",
			},
		})
	})

	sess, err := c.StartExam(context.Background(), "e1")
	if err != nil {
		t.Fatalf("start exam: %v", err)
	}
	if gotPath != "/studentExam/start/e1" {
		t.Errorf("path = %q", gotPath)
	}
	// The session is keyed on the exam id.
	if sess.ID != "e1" {
		t.Errorf("session id = %q, want e1", sess.ID)
	}
	if len(sess.Exam.Questions) != 2 || sess.Exam.Questions[0].ID != "q1" {
		t.Errorf("questions = %+v", sess.Exam.Questions)
	}
	if sess.EndTime.Sub(sess.StartTime) != 30*time.Minute {
		t.Errorf("window = %v", sess.EndTime.Sub(sess.StartTime))
	}
}

func TestStartExamRejectsMalformedExam(t *testing.T) {
	c := newTestClient(t, "jwt", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				// duration missing
				"exam": map[string]any{"_id": "e1", "title": "Algebra"},
			},
		})
	})

	_, err := c.StartExam(context.Background(), "e1")
	var invErr *InvalidResponseError
	if !errors.As(err, &invErr) {
		t.Fatalf("err = %v, want InvalidResponseError", err)
	}
}

func TestSubmitAnswersBody(t *testing.T) {
	var gotBody map[string][]AnswerPayload
	c := newTestClient(t, "jwt", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"score": 3, "totalPoints": 5},
		})
	})

	res, err := c.SubmitAnswers(context.Background(), "e1", []AnswerPayload{
		{QuestionID: "q1", SelectedAnswer: "Paris"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Score != 3 || res.TotalPoints != 5 {
		t.Errorf("result = %+v", res)
	}
	answers := gotBody["answers"]
	if len(answers) != 1 || answers[0].QuestionID != "q1" || answers[0].SelectedAnswer != "Paris" {
		t.Errorf("answers = %+v", answers)
	}
}

func TestSubmitNilAnswersSendsEmptyArray(t *testing.T) {
	var gotBody string
	c := newTestClient(t, "jwt", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"score": 0, "totalPoints": 5},
		})
	})

	if _, err := c.SubmitAnswers(context.Background(), "e1", nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if gotBody != `{"answers":[]}` {
		t.Errorf("body = %q, want empty answers array", gotBody)
	}
}

func TestScoreStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		env     map[string]any
		want    ScoreStatus
		wantErr error
	}{
		{
			name:   "submitted with score",
			status: http.StatusOK,
			env: map[string]any{
				"success": true,
				"data":    map[string]any{"score": 8, "totalPoints": 10},
			},
			want: ScoreStatus{Submitted: true, Score: 8},
		},
		{
			name:   "not submitted folds to value",
			status: http.StatusNotFound,
			env:    map[string]any{"success": false, "message": "no score found"},
			want:   ScoreStatus{Submitted: false},
		},
		{
			name:    "auth failure surfaces",
			status:  http.StatusUnauthorized,
			env:     map[string]any{"success": false, "message": "invalid token"},
			wantErr: ErrAuthRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "jwt", func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, tt.status, tt.env)
			})

			got, err := c.ScoreStatus(context.Background(), "e1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("score status: %v", err)
			}
			if got != tt.want {
				t.Errorf("status = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLessonsQueryAndPagination(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, "jwt", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data": []any{
				map[string]any{"_id": "l1", "title": "Fractions", "price": 0},
				map[string]any{"_id": "l2", "title": "Decimals", "price": 50, "isPaid": true},
			},
			"pagination": map[string]any{"total": 12, "page": 2, "limit": 2, "totalPages": 6},
		})
	})

	lessons, page, err := c.Lessons(context.Background(), LessonQuery{
		Page: 2, Limit: 2, SortBy: "createdAt", SortOrder: "desc",
	})
	if err != nil {
		t.Fatalf("lessons: %v", err)
	}
	if gotQuery != "limit=2&page=2&sortBy=createdAt&sortOrder=desc" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(lessons) != 2 || lessons[1].Title != "Decimals" || !lessons[1].IsPaid {
		t.Errorf("lessons = %+v", lessons)
	}
	if page.Total != 12 || page.Pages != 6 {
		t.Errorf("pagination = %+v", page)
	}
}

func TestRemainingTimeRequest(t *testing.T) {
	var gotPath string
	c := newTestClient(t, "jwt", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"remainingTime": map[string]any{"minutes": 12, "seconds": 30},
			},
		})
	})

	rt, err := c.RemainingTime(context.Background(), "e1")
	if err != nil {
		t.Fatalf("remaining time: %v", err)
	}
	if gotPath != "/studentExam/exams/remaining-time/e1" {
		t.Errorf("path = %q", gotPath)
	}
	if rt.TotalSeconds() != 750 {
		t.Errorf("total seconds = %d, want 750", rt.TotalSeconds())
	}
}
