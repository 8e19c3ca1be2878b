package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/coursekit/coursechat/internal/server"
	"github.com/coursekit/coursechat/internal/types"
	"github.com/gorilla/websocket"
)

type UnreadCountResponse struct {
	CourseId    int `json:"course_id"`
	UnreadCount int `json:"unread_count"`
}

type HealthResponse struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

func (s *CourseChatApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func (s *CourseChatApp) courseIdPathValue(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("course_id"))
}

func (s *CourseChatApp) getUnreadCount(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	courseId, err := s.courseIdPathValue(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	count, err := s.unread.Unread(r.Context(), courseId, userId)
	if err != nil {
		s.log.Printf("get unread count for course %d, user %d: %v", courseId, userId, err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, UnreadCountResponse{
		CourseId:    courseId,
		UnreadCount: count,
	})
}

func (s *CourseChatApp) resetUnreadCount(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	courseId, err := s.courseIdPathValue(r)
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.unread.Reset(r.Context(), courseId, userId); err != nil {
		s.log.Printf("reset unread count for course %d, user %d: %v", courseId, userId, err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, UnreadCountResponse{
		CourseId:    courseId,
		UnreadCount: 0,
	})
}

func (s *CourseChatApp) healthz(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Database: "ok", Cache: "ok"}
	healthy := true

	if err := s.db.Ping(); err != nil {
		s.log.Printf("healthz: database: %v", err)
		resp.Database = "unavailable"
		healthy = false
	}

	if pinger, ok := s.unread.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(r.Context()); err != nil {
			s.log.Printf("healthz: cache: %v", err)
			resp.Cache = "unavailable"
			healthy = false
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	s.writeJson(w, status, resp)
}

// serveWs is the chat connection handshake. The bearer token and the
// target course arrive as query parameters; a request that fails
// verification is rejected before the upgrade, so a rejected
// connection simply never opens.
func (s *CourseChatApp) serveWs(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		// fall back to the session cookie used by the REST endpoints
		if cookie, err := r.Cookie(tokenCookieKey); err == nil {
			tokenString = cookie.Value
		}
	}

	if tokenString == "" {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	userId, err := s.extractUserIdFromToken(tokenString)
	if err != nil {
		s.log.Printf("ws handshake: %v", err)
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	courseId, err := strconv.Atoi(r.URL.Query().Get("course_id"))
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	role, err := s.oracle.IsMember(r.Context(), userId, courseId)
	if err != nil {
		s.log.Printf("ws handshake: membership check for user %d in course %d: %v", userId, courseId, err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}
	if !role.Member() {
		s.log.Printf("ws handshake: user %d is not allowed to chat in course %d", userId, courseId)
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user, err := s.db.GetAccountById(userId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	sid, err := s.generateShortId()
	if err != nil {
		s.log.Print("generateShortId:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			// only allow connections from allowed origins
			origin := r.Header.Get("Origin")
			if origin == "" {
				// if no origin header, allow the request
				return true
			}

			return slices.Contains(s.allowedOrigins, origin)
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Println("error upgrading connection:", err)
		return
	}

	client := server.NewClient(sid, types.User{
		Id:           user.Id,
		Name:         user.Name,
		EmailAddress: user.EmailAddress,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}, courseId, conn, s.cs, s.log)

	s.cs.HandleConnection(client)
}
