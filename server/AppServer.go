package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"runtime/debug"

	"go.uber.org/zap"
	"golang.org/x/net/context"

	"github.com/Open-MBEE/mcf-sub004/branches"
	"github.com/Open-MBEE/mcf-sub004/config"
	"github.com/Open-MBEE/mcf-sub004/dao"
	"github.com/Open-MBEE/mcf-sub004/events"
	"github.com/Open-MBEE/mcf-sub004/metadata/models"
	"github.com/Open-MBEE/mcf-sub004/util"
)

// Constants serve as keys for setting values on a request-scoped Context.
const (
	CallerVal = iota
	CaptureGroupsVal
	UserVal
	Logger
	SessionID
	DAO
)

// AppServer is an http.Handler implementation that holds most service dependencies.
type AppServer struct {
	// Port is the TCP port that the web server listens on.
	Port string
	// Bind is the Network Address that the web server will use.
	Bind string
	// Addr is the combined network address and port the server listens on.
	Addr string
	// RootDAO is the interface contract with the database.
	RootDAO dao.DAO
	// Conf is the configuration passed to the application.
	Conf config.ServerSettingsConfiguration
	// ServicePrefix is the base url. Used when matching routes.
	ServicePrefix string
	// Branches orchestrates the branch lifecycle operations.
	Branches *branches.Controller
	// EventQueue is a Publisher interface we use to publish our main event stream.
	EventQueue events.Publisher
	// Routes holds the compiled regular expressions used when matching routes. See InitRegex method.
	Routes *StaticRx
}

// NewAppServer creates an AppServer.
func NewAppServer(conf config.ServerSettingsConfiguration) (*AppServer, error) {
	app := AppServer{
		Port:          conf.ListenPort,
		Bind:          conf.ListenBind,
		Addr:          conf.ListenBind + ":" + conf.ListenPort,
		Conf:          conf,
		ServicePrefix: conf.BasePath,
	}
	app.InitRegex()
	return &app, nil
}

// segmentRx matches one identifier segment in a route. Grammar enforcement
// beyond the coarse character class happens in the service layer so bad ids
// get a descriptive 400 instead of an opaque 404.
const segmentRx = `[0-9a-zA-Z_-]+`

// InitRegex compiles static regexes and initializes the AppServer Routes field.
func (h *AppServer) InitRegex() {
	route := func(path string) *regexp.Regexp {
		return regexp.MustCompile("^" + h.ServicePrefix + path)
	}
	h.Routes = &StaticRx{
		Ping:  route("/ping$"),
		Stats: route("/stats$"),
		Branches: route(fmt.Sprintf(
			"/orgs/(?P<orgId>%s)/projects/(?P<projectId>%s)/branches/?$", segmentRx, segmentRx)),
		Branch: route(fmt.Sprintf(
			"/orgs/(?P<orgId>%s)/projects/(?P<projectId>%s)/branches/(?P<branchId>%s)$", segmentRx, segmentRx, segmentRx)),
	}
}

// When there is a panic, all deferred functions get executed.
func logCrashInServeHTTP(logger *zap.Logger, w http.ResponseWriter) {
	if r := recover(); r != nil {
		logger.Error("mcf crash", zap.Any("context", r), zap.String("stack", string(debug.Stack())))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// ServeHTTP handles the routing of requests
func (h AppServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := newSessionID()
	w.Header().Add("sessionid", sessionID)

	caller := CallerFromRequest(r)
	logger := config.RootLogger.With(zap.String("session", sessionID))
	defer logCrashInServeHTTP(logger, w)

	ctx := context.Background()
	ctx = ContextWithLogger(ctx, logger)
	ctx = ContextWithCaller(ctx, caller)
	ctx = ContextWithSession(ctx, sessionID)
	ctx = ContextWithDAO(ctx, h.RootDAO)

	logger.Info("transaction start",
		zap.String("user", caller.UserName),
		zap.String("method", r.Method),
		zap.String("uri", r.RequestURI),
	)

	var uri = r.URL.Path
	var herr *AppError

	// The following routes can be handled without calls to the database
	withoutDatabase := false
	if r.Method == "GET" {
		switch {
		case h.Routes.Ping.MatchString(uri):
			herr = h.ping(ctx, w, r)
			withoutDatabase = true
		case h.Routes.Stats.MatchString(uri):
			herr = h.getStats(ctx, w, r)
			withoutDatabase = true
		}
	}
	if withoutDatabase {
		if herr != nil {
			sendAppErrorResponse(logger, &w, herr)
		} else {
			countOKResponse(logger)
		}
		return
	}

	user, err := h.FetchUser(ctx)
	if err != nil {
		sendErrorResponse(logger, &w, 500, err, "Error loading user")
		return
	}
	ctx = ContextWithUser(ctx, user)

	switch r.Method {
	case "GET":
		switch {
		case h.Routes.Branches.MatchString(uri):
			ctx = parseCaptureGroups(ctx, r.URL.Path, h.Routes.Branches)
			herr = h.getBranches(ctx, w, r)
		case h.Routes.Branch.MatchString(uri):
			ctx = parseCaptureGroups(ctx, r.URL.Path, h.Routes.Branch)
			herr = h.getBranches(ctx, w, r)
		default:
			herr = do404(ctx, w, r)
		}
	case "POST":
		switch {
		case h.Routes.Branches.MatchString(uri):
			ctx = parseCaptureGroups(ctx, r.URL.Path, h.Routes.Branches)
			herr = h.createBranches(ctx, w, r)
		default:
			herr = do404(ctx, w, r)
		}
	case "PATCH":
		switch {
		case h.Routes.Branches.MatchString(uri):
			ctx = parseCaptureGroups(ctx, r.URL.Path, h.Routes.Branches)
			herr = h.updateBranches(ctx, w, r)
		case h.Routes.Branch.MatchString(uri):
			ctx = parseCaptureGroups(ctx, r.URL.Path, h.Routes.Branch)
			herr = h.updateBranches(ctx, w, r)
		default:
			herr = do404(ctx, w, r)
		}
	case "DELETE":
		switch {
		case h.Routes.Branches.MatchString(uri):
			ctx = parseCaptureGroups(ctx, r.URL.Path, h.Routes.Branches)
			herr = h.deleteBranches(ctx, w, r)
		case h.Routes.Branch.MatchString(uri):
			ctx = parseCaptureGroups(ctx, r.URL.Path, h.Routes.Branch)
			herr = h.deleteBranches(ctx, w, r)
		default:
			herr = do404(ctx, w, r)
		}
	default:
		herr = do404(ctx, w, r)
	}

	if herr != nil {
		sendAppErrorResponse(logger, &w, herr)
	} else {
		countOKResponse(logger)
	}
}

// FetchUser resolves the caller against the user table. Callers without a
// provisioned account still get a user document carrying just the username;
// the permission gate decides what that is worth.
func (h AppServer) FetchUser(ctx context.Context) (models.MCFUser, error) {
	caller, _ := CallerFromContext(ctx)
	if caller.UserName == "" {
		return models.MCFUser{}, nil
	}
	user, err := h.RootDAO.GetUserByUsername(caller.UserName)
	if err == sql.ErrNoRows {
		return models.MCFUser{Username: caller.UserName}, nil
	}
	if err != nil {
		return models.MCFUser{}, err
	}
	return user, nil
}

func newSessionID() string {
	guid, err := util.NewGUID()
	if err != nil {
		return "unknown"
	}
	return guid
}

// ContextWithSession puts the sessionID on the context, used for log correlation
func ContextWithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionID, sessionID)
}

// ContextWithCaller returns a new Context object with a Caller value set. The const CallerVal acts
// as the key that maps to the caller value.
func ContextWithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, CallerVal, caller)
}

// ContextWithDAO puts the DAO on the context bound with a logger, so that SQL can be correlated
func ContextWithDAO(ctx context.Context, d dao.DAO) context.Context {
	return context.WithValue(ctx, DAO, d)
}

// DAOFromContext returns the DAO associated with the context
func DAOFromContext(ctx context.Context) dao.DAO {
	d, ok := ctx.Value(DAO).(dao.DAO)
	if !ok {
		LoggerFromContext(ctx).Error("cannot get dao from context")
	}
	return d
}

// CallerFromContext extracts a Caller from a context, if set.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(CallerVal).(Caller)
	return caller, ok
}

// ContextWithLogger puts the logger on the context
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, Logger, logger)
}

// LoggerFromContext gets a zap logger from our context
func LoggerFromContext(ctx context.Context) *zap.Logger {
	logger, ok := ctx.Value(Logger).(*zap.Logger)
	if !ok {
		return config.RootLogger
	}
	return logger
}

// SessionIDFromContext extracts the session id from the context
func SessionIDFromContext(ctx context.Context) string {
	sessionID, ok := ctx.Value(SessionID).(string)
	if !ok {
		return "unknown"
	}
	return sessionID
}

func parseCaptureGroups(ctx context.Context, path string, regex *regexp.Regexp) context.Context {
	captured := util.GetRegexCaptureGroups(path, regex)
	return context.WithValue(ctx, CaptureGroupsVal, captured)
}

// CaptureGroupsFromContext extracts the capture groups from a context, if set
func CaptureGroupsFromContext(ctx context.Context) (map[string]string, bool) {
	captured, ok := ctx.Value(CaptureGroupsVal).(map[string]string)
	return captured, ok
}

// ContextWithUser puts the user object on the context and returns the modified context
func ContextWithUser(ctx context.Context, user models.MCFUser) context.Context {
	return context.WithValue(ctx, UserVal, user)
}

// UserFromContext extracts the user from a context, if set
func UserFromContext(ctx context.Context) (models.MCFUser, bool) {
	user, ok := ctx.Value(UserVal).(models.MCFUser)
	return user, ok
}

func do404(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		caller = Caller{UserName: "UnknownUser"}
	}
	msg := caller.UserName + " from address " + r.RemoteAddr + " unhandled operation " + r.Method + " " + r.URL.Path
	return NewAppError(404, nil, fmt.Sprintf("Resource not found %s", msg))
}

// jsonResponse writes a response, and should be called for all HTTP handlers that return JSON.
func jsonResponse(w http.ResponseWriter, i interface{}) {
	w.Header().Set("Content-Type", "application/json")
	jsonData, _ := json.MarshalIndent(i, "", "  ")
	w.Write(jsonData)
}

// StaticRx statically references compiled regular expressions.
type StaticRx struct {
	Ping     *regexp.Regexp
	Stats    *regexp.Regexp
	Branches *regexp.Regexp
	Branch   *regexp.Regexp
}
