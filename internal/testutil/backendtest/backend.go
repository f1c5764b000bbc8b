// Package backendtest provides an in-memory stand-in for the airport REST backend.
// It speaks the same {success, data, message, error} envelope and enforces the
// same role rules so adapters, services and handlers can be tested end to end.
package backendtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/airportmgmt/airport-web/internal/domain/model"
)

// SessionCookie is the cookie name the fake backend issues.
const SessionCookie = "JSESSIONID"

// User is an account known to the fake backend.
type User struct {
	ID       int64
	Username string
	Password string
	Email    string
	Role     string
}

// Call records one request received by the fake backend.
type Call struct {
	Method string
	Path   string
	Query  string
	Form   map[string]string
}

type failure struct {
	status  int
	message string
}

// Server is the fake backend. Use New to start one.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	nextID   int64
	users    map[string]User
	sessions map[string]string
	airports map[int64]model.Airport
	flights  map[int64]model.Flight
	bookings map[int64]model.Booking
	calls    []Call
	failures map[string]failure
}

// New starts a fake backend seeded with one admin, one staff and one passenger account.
// It is closed automatically at test cleanup.
func New(t interface {
	Helper()
	Cleanup(func())
}) *Server {
	t.Helper()
	s := &Server{
		nextID:   100,
		users:    map[string]User{},
		sessions: map[string]string{},
		airports: map[int64]model.Airport{},
		flights:  map[int64]model.Flight{},
		bookings: map[int64]model.Booking{},
		failures: map[string]failure{},
	}
	s.AddUser(User{ID: 1, Username: "admin", Password: "admin123", Email: "admin@example.com", Role: "ADMIN"})
	s.AddUser(User{ID: 2, Username: "staff", Password: "staff123", Email: "staff@example.com", Role: "STAFF"})
	s.AddUser(User{ID: 3, Username: "alice", Password: "alice123", Email: "alice@example.com", Role: "PASSENGER"})

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.login)
	mux.HandleFunc("POST /auth/register", s.register)
	mux.HandleFunc("POST /auth/logout", s.logout)

	mux.HandleFunc("GET /airport/list", s.listAirports)
	mux.HandleFunc("GET /airport/search", s.searchAirports)
	mux.HandleFunc("GET /airport/{id}", s.getAirport)
	mux.HandleFunc("POST /airport/create", s.requireRole(s.saveAirport, "ADMIN"))
	mux.HandleFunc("PUT /airport/update", s.requireRole(s.saveAirport, "ADMIN"))
	mux.HandleFunc("DELETE /airport/{id}", s.requireRole(s.deleteAirport, "ADMIN"))

	mux.HandleFunc("GET /flight/list", s.listFlights)
	mux.HandleFunc("GET /flight/search", s.searchFlights)
	mux.HandleFunc("GET /flight/{id}", s.getFlight)
	mux.HandleFunc("POST /flight/create", s.requireRole(s.saveFlight, "ADMIN", "STAFF"))
	mux.HandleFunc("PUT /flight/update", s.requireRole(s.saveFlight, "ADMIN", "STAFF"))
	mux.HandleFunc("PUT /flight/cancel/{id}", s.requireRole(s.cancelFlight, "ADMIN", "STAFF"))
	mux.HandleFunc("DELETE /flight/{id}", s.requireRole(s.deleteFlight, "ADMIN"))

	mux.HandleFunc("POST /booking/create", s.requireRole(s.createBooking))
	mux.HandleFunc("GET /booking/my-bookings", s.requireRole(s.myBookings))
	mux.HandleFunc("GET /booking/list", s.requireRole(s.allBookings, "ADMIN", "STAFF"))
	mux.HandleFunc("PUT /booking/cancel/{id}", s.requireRole(s.cancelBooking))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseMultipartForm(1 << 20)
		s.record(r)
		if f, ok := s.takeFailure(r.Method + " " + r.URL.Path); ok {
			writeError(w, f.status, f.message)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

// AddUser registers an account.
func (s *Server) AddUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Username] = u
}

// AddAirport stores a and returns it with an assigned id when a.ID is zero.
func (s *Server) AddAirport(a model.Airport) model.Airport {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.allocID()
	}
	s.airports[a.ID] = a
	return a
}

// AddFlight stores f, filling airport labels from stored airports.
func (s *Server) AddFlight(f model.Flight) model.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID == 0 {
		f.ID = s.allocID()
	}
	if f.Status == "" {
		f.Status = model.FlightScheduled
	}
	s.fillAirports(&f)
	s.flights[f.ID] = f
	return f
}

// Airports returns a snapshot of stored airports ordered by id.
func (s *Server) Airports() []model.Airport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.airports, func(a model.Airport) int64 { return a.ID })
}

// Flight returns the stored flight with id.
func (s *Server) Flight(id int64) (model.Flight, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flights[id]
	return f, ok
}

// Bookings returns a snapshot of stored bookings ordered by id.
func (s *Server) Bookings() []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.bookings, func(b model.Booking) int64 { return b.ID })
}

// FailNext makes the next request matching "METHOD /path" answer with a failure envelope.
func (s *Server) FailNext(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// Calls returns every request received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// CallsTo returns requests whose "METHOD /path" equals route.
func (s *Server) CallsTo(route string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method+" "+c.Path == route {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) record(r *http.Request) {
	form := map[string]string{}
	if r.MultipartForm != nil {
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				form[k] = v[0]
			}
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Form: form})
}

func (s *Server) takeFailure(route string) (failure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.failures[route]
	if ok {
		delete(s.failures, route)
	}
	return f, ok
}

func (s *Server) allocID() int64 {
	s.nextID++
	return s.nextID
}

func (s *Server) fillAirports(f *model.Flight) {
	if a, ok := s.airports[f.SourceAirportID]; ok {
		f.SourceAirportCode, f.SourceAirportName = a.Code, a.Name
	}
	if a, ok := s.airports[f.DestinationAirportID]; ok {
		f.DestinationAirportCode, f.DestinationAirportName = a.Code, a.Name
	}
}

func (s *Server) currentUser(r *http.Request) (User, bool) {
	ck, err := r.Cookie(SessionCookie)
	if err != nil {
		return User{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.sessions[ck.Value]
	if !ok {
		return User{}, false
	}
	u, ok := s.users[name]
	return u, ok
}

// requireRole enforces authentication, and membership in roles when any are given.
func (s *Server) requireRole(next func(http.ResponseWriter, *http.Request, User), roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, u.Role) {
			writeError(w, http.StatusForbidden, "Access denied")
			return
		}
		next(w, r, u)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u, ok := s.users[r.FormValue("username")]
	s.mu.Unlock()
	if !ok || u.Password != r.FormValue("password") {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = u.Username
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: token, Path: "/", HttpOnly: true})
	writeOK(w, userData(u), "Login successful")
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("username")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[name]; exists {
		writeError(w, http.StatusBadRequest, "Username already exists")
		return
	}
	u := User{ID: s.allocID(), Username: name, Password: r.FormValue("password"), Email: r.FormValue("email"), Role: "PASSENGER"}
	s.users[name] = u
	writeOK(w, userData(u), "User registered successfully")
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if ck, err := r.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		_, had := s.sessions[ck.Value]
		delete(s.sessions, ck.Value)
		s.mu.Unlock()
		if had {
			writeOK(w, nil, "Logged out successfully")
			return
		}
	}
	writeOK(w, nil, "Already logged out")
}

func userData(u User) map[string]any {
	return map[string]any{"id": u.ID, "username": u.Username, "email": u.Email, "role": u.Role}
}

func (s *Server) listAirports(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, s.Airports(), "Airports retrieved successfully")
}

func (s *Server) searchAirports(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	var out []model.Airport
	for _, a := range s.Airports() {
		hay := strings.ToLower(a.Code + " " + a.Name + " " + a.City + " " + a.Country)
		if strings.Contains(hay, q) {
			out = append(out, a)
		}
	}
	writeOK(w, out, "Search completed successfully")
}

func (s *Server) getAirport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid airport ID")
	if !ok {
		return
	}
	s.mu.Lock()
	a, found := s.airports[id]
	s.mu.Unlock()
	if !found {
		writeError(w, http.StatusNotFound, "Airport not found")
		return
	}
	writeOK(w, a, "Airport retrieved successfully")
}

func (s *Server) saveAirport(w http.ResponseWriter, r *http.Request, _ User) {
	a := model.Airport{
		Code:    r.FormValue("code"),
		Name:    r.FormValue("name"),
		City:    r.FormValue("city"),
		Country: r.FormValue("country"),
	}
	if !model.ValidAirportCode(a.Code) {
		writeError(w, http.StatusBadRequest, "Invalid airport code format. Must be 3 uppercase letters.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	update := r.Method == http.MethodPut
	if update {
		id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid airport ID")
			return
		}
		if _, ok := s.airports[id]; !ok {
			writeError(w, http.StatusBadRequest, "Airport not found")
			return
		}
		a.ID = id
	}
	for _, existing := range s.airports {
		if existing.Code == a.Code && existing.ID != a.ID {
			writeError(w, http.StatusBadRequest, "Airport code already exists")
			return
		}
	}
	if !update {
		a.ID = s.allocID()
	}
	s.airports[a.ID] = a
	if update {
		writeOK(w, a, "Airport updated successfully")
		return
	}
	writeOK(w, a, "Airport created successfully")
}

func (s *Server) deleteAirport(w http.ResponseWriter, r *http.Request, _ User) {
	id, ok := pathID(w, r, "Invalid airport ID")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.airports[id]; !found {
		writeError(w, http.StatusInternalServerError, "Failed to delete airport")
		return
	}
	delete(s.airports, id)
	writeOK(w, nil, "Airport deleted successfully")
}

func (s *Server) listFlights(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := sortedValues(s.flights, func(f model.Flight) int64 { return f.ID })
	s.mu.Unlock()
	writeOK(w, out, "Flights retrieved successfully")
}

func (s *Server) searchFlights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, date := q.Get("from"), q.Get("to"), q.Get("date")
	s.mu.Lock()
	all := sortedValues(s.flights, func(f model.Flight) int64 { return f.ID })
	s.mu.Unlock()

	var out []model.Flight
	for _, f := range all {
		if from != "" && !strings.EqualFold(f.SourceAirportCode, from) {
			continue
		}
		if to != "" && !strings.EqualFold(f.DestinationAirportCode, to) {
			continue
		}
		if date != "" && f.DepartureTime.Format(time.DateOnly) != date {
			continue
		}
		out = append(out, f)
	}
	writeOK(w, out, "Search completed successfully")
}

func (s *Server) getFlight(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid flight ID")
	if !ok {
		return
	}
	f, found := s.Flight(id)
	if !found {
		writeError(w, http.StatusNotFound, "Flight not found")
		return
	}
	writeOK(w, f, "Flight retrieved successfully")
}

func (s *Server) saveFlight(w http.ResponseWriter, r *http.Request, _ User) {
	in, err := flightFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid number format")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	update := r.Method == http.MethodPut
	if update {
		existing, ok := s.flights[in.ID]
		if !ok {
			writeError(w, http.StatusBadRequest, "Flight not found")
			return
		}
		if in.Status == "" {
			in.Status = existing.Status
		}
	} else {
		in.ID = s.allocID()
		in.Status = model.FlightScheduled
	}
	if _, ok := s.airports[in.SourceAirportID]; !ok {
		writeError(w, http.StatusBadRequest, "Source airport not found")
		return
	}
	if _, ok := s.airports[in.DestinationAirportID]; !ok {
		writeError(w, http.StatusBadRequest, "Destination airport not found")
		return
	}
	s.fillAirports(&in)
	s.flights[in.ID] = in
	if update {
		writeOK(w, in, "Flight updated successfully")
		return
	}
	writeOK(w, in, "Flight scheduled successfully")
}

func flightFromForm(r *http.Request) (model.Flight, error) {
	var (
		f   model.Flight
		err error
	)
	parseInt := func(key string) int64 {
		if err != nil {
			return 0
		}
		var v int64
		v, err = strconv.ParseInt(r.FormValue(key), 10, 64)
		return v
	}
	if r.Method == http.MethodPut {
		f.ID = parseInt("id")
	}
	f.FlightNumber = r.FormValue("flightNumber")
	f.SourceAirportID = parseInt("sourceAirportId")
	f.DestinationAirportID = parseInt("destinationAirportId")
	f.SeatsAvailable = int(parseInt("seatsAvailable"))
	if err != nil {
		return f, err
	}
	if f.Price, err = strconv.ParseFloat(r.FormValue("price"), 64); err != nil {
		return f, err
	}
	if f.DepartureTime, err = model.ParseLocalTime(r.FormValue("departureTime")); err != nil {
		return f, err
	}
	if f.ArrivalTime, err = model.ParseLocalTime(r.FormValue("arrivalTime")); err != nil {
		return f, err
	}
	if st := r.FormValue("status"); st != "" {
		status, ok := model.ParseFlightStatus(st)
		if !ok {
			return f, fmt.Errorf("invalid status %q", st)
		}
		f.Status = status
	}
	return f, nil
}

func (s *Server) cancelFlight(w http.ResponseWriter, r *http.Request, _ User) {
	id, ok := pathID(w, r, "Invalid flight ID")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, found := s.flights[id]
	if !found {
		writeError(w, http.StatusInternalServerError, "Failed to cancel flight")
		return
	}
	f.Status = model.FlightCancelled
	s.flights[id] = f
	writeOK(w, nil, "Flight cancelled successfully")
}

func (s *Server) deleteFlight(w http.ResponseWriter, r *http.Request, _ User) {
	id, ok := pathID(w, r, "Invalid flight ID")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.flights[id]; !found {
		writeError(w, http.StatusInternalServerError, "Failed to delete flight")
		return
	}
	delete(s.flights, id)
	writeOK(w, nil, "Flight deleted successfully")
}

func (s *Server) createBooking(w http.ResponseWriter, r *http.Request, u User) {
	flightID, err := strconv.ParseInt(r.FormValue("flightId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid number format")
		return
	}
	seats, err := strconv.Atoi(r.FormValue("seatsBooked"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid number format")
		return
	}
	if seats <= 0 {
		writeError(w, http.StatusBadRequest, "Seats booked must be a positive number.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flights[flightID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Flight not found")
		return
	}
	if f.Status == model.FlightCancelled {
		writeError(w, http.StatusBadRequest, "Cannot book a cancelled flight.")
		return
	}
	if f.SeatsAvailable < seats {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Not enough seats available. Only %d seats left.", f.SeatsAvailable))
		return
	}
	f.SeatsAvailable -= seats
	s.flights[f.ID] = f

	b := model.Booking{
		ID:                     s.allocID(),
		UserID:                 u.ID,
		FlightID:               f.ID,
		SeatsBooked:            seats,
		TotalPrice:             float64(seats) * f.Price,
		Status:                 model.BookingConfirmed,
		BookingDate:            model.LocalTime{Time: time.Now().UTC().Truncate(time.Second)},
		Username:               u.Username,
		FlightNumber:           f.FlightNumber,
		SourceAirportCode:      f.SourceAirportCode,
		DestinationAirportCode: f.DestinationAirportCode,
		DepartureTime:          f.DepartureTime,
	}
	s.bookings[b.ID] = b
	writeOK(w, b, "Booking created successfully")
}

func (s *Server) myBookings(w http.ResponseWriter, _ *http.Request, u User) {
	var out []model.Booking
	for _, b := range s.Bookings() {
		if b.UserID == u.ID {
			out = append(out, b)
		}
	}
	writeOK(w, out, "Bookings retrieved successfully")
}

func (s *Server) allBookings(w http.ResponseWriter, _ *http.Request, _ User) {
	writeOK(w, s.Bookings(), "Bookings retrieved successfully")
}

func (s *Server) cancelBooking(w http.ResponseWriter, r *http.Request, u User) {
	id, ok := pathID(w, r, "Invalid booking ID")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, found := s.bookings[id]
	if !found {
		writeError(w, http.StatusBadRequest, "Booking not found")
		return
	}
	if b.UserID != u.ID && u.Role != "ADMIN" {
		writeError(w, http.StatusBadRequest, "Unauthorized: This booking does not belong to you.")
		return
	}
	if b.Status == model.BookingCancelled {
		writeError(w, http.StatusBadRequest, "Booking is already cancelled.")
		return
	}
	b.Status = model.BookingCancelled
	s.bookings[id] = b
	if f, ok := s.flights[b.FlightID]; ok {
		f.SeatsAvailable += b.SeatsBooked
		s.flights[f.ID] = f
	}
	writeOK(w, nil, "Booking cancelled successfully")
}

func pathID(w http.ResponseWriter, r *http.Request, msg string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, msg)
		return 0, false
	}
	return id, true
}

func sortedValues[T any](m map[int64]T, key func(T) int64) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b T) int {
		switch ka, kb := key(a), key(b); {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	})
	return out
}

func writeOK(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": message, "data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
