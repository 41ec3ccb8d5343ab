package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"staybook/internal/adapters/observability"
	"staybook/internal/app"
	"staybook/internal/domain"
)

type Handlers struct {
	Auth     *app.AuthService
	Hotels   *app.HotelService
	Rooms    *app.RoomService
	Bookings *app.BookingService

	Tokens domain.AuthProvider // verifies bearer tokens

	LoginRPS   float64
	LoginBurst int
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1/auth", func(r chi.Router) {
		r.Use(RateLimit(h.LoginRPS, h.LoginBurst))
		r.Post("/register", h.register)
		r.Post("/login", h.login)
	})

	s.mux.Route("/v1/hotels", func(r chi.Router) {
		r.Get("/", h.listHotels)
		r.Get("/{id}", h.getHotel)
		r.Get("/{id}/rooms", h.listHotelRooms)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(h.Tokens))
			r.With(RequireRoles(domain.RoleOwner)).Get("/mine", h.listMyHotels)
			r.With(RequireRoles(domain.RoleOwner, domain.RoleAdmin)).Post("/", h.createHotel)
			r.With(RequireRoles(domain.RoleOwner, domain.RoleAdmin)).Put("/{id}", h.updateHotel)
			r.With(RequireRoles(domain.RoleOwner, domain.RoleAdmin)).Delete("/{id}", h.deleteHotel)
			r.With(RequireRoles(domain.RoleOwner, domain.RoleAdmin)).Post("/{id}/rooms", h.createRoom)
		})
	})

	s.mux.Route("/v1/rooms", func(r chi.Router) {
		r.Get("/available", h.listAvailableRooms)
		r.Get("/search", h.searchRooms)
		r.Get("/{id}", h.getRoom)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(h.Tokens))
			r.Use(RequireRoles(domain.RoleOwner, domain.RoleAdmin))
			r.Put("/{id}", h.updateRoom)
			r.Patch("/{id}/availability", h.patchAvailability)
			r.Delete("/{id}", h.deleteRoom)
		})
	})

	s.mux.Route("/v1/bookings", func(r chi.Router) {
		r.Use(Authenticate(h.Tokens))
		r.Post("/", h.createBooking)
		r.Get("/mine", h.listMyBookings)
		r.Get("/{id}", h.getBooking)
		r.Delete("/{id}", h.cancelBooking)
	})
}

// ---- wire views ----

type userView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type hotelView struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
}

type roomView struct {
	ID            uuid.UUID `json:"id"`
	HotelID       uuid.UUID `json:"hotel_id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	PricePerNight float64   `json:"price_per_night"`
	Capacity      int       `json:"capacity"`
	Available     bool      `json:"is_available"`
	CreatedAt     time.Time `json:"created_at"`
}

type bookingView struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	UserID    uuid.UUID `json:"user_id"`
	CheckIn   string    `json:"check_in_date"`
	CheckOut  string    `json:"check_out_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

const dateLayout = "2006-01-02"

func viewUser(u domain.User) userView {
	return userView{ID: u.ID, Email: u.Email, Role: string(u.Role), CreatedAt: u.CreatedAt}
}

func viewHotel(h domain.Hotel) hotelView {
	return hotelView{ID: h.ID, OwnerID: h.OwnerID, Name: h.Name, Description: h.Description, Address: h.Address, CreatedAt: h.CreatedAt}
}

func viewRoom(r domain.Room) roomView {
	return roomView{
		ID: r.ID, HotelID: r.HotelID, Title: r.Title, Description: r.Description,
		PricePerNight: r.PricePerNight, Capacity: r.Capacity, Available: r.Available, CreatedAt: r.CreatedAt,
	}
}

func viewBooking(b domain.Booking) bookingView {
	return bookingView{
		ID: b.ID, RoomID: b.RoomID, UserID: b.UserID,
		CheckIn: b.CheckIn.Format(dateLayout), CheckOut: b.CheckOut.Format(dateLayout),
		Status: string(b.Status), CreatedAt: b.CreatedAt,
	}
}

func viewHotels(hs []domain.Hotel) []hotelView {
	out := make([]hotelView, 0, len(hs))
	for _, h := range hs {
		out = append(out, viewHotel(h))
	}
	return out
}

func viewRooms(rs []domain.Room) []roomView {
	out := make([]roomView, 0, len(rs))
	for _, r := range rs {
		out = append(out, viewRoom(r))
	}
	return out
}

func viewBookings(bs []domain.Booking) []bookingView {
	out := make([]bookingView, 0, len(bs))
	for _, b := range bs {
		out = append(out, viewBooking(b))
	}
	return out
}

// ---- response plumbing ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeError maps domain sentinels to their HTTP status. Anything unmapped is
// a 500 with the detail kept out of the response.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrUnavailable),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrPastDate),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidRole):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrActiveBookings):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthenticated):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	default:
		log.Error().Err(err).Msg("unhandled service error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func mustPrincipal(w http.ResponseWriter, r *http.Request) (app.Principal, bool) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
	}
	return p, ok
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return domain.DateOf(t), nil
}

// ---- auth ----

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if !decode(w, r, &req) {
		return
	}
	u, err := h.Auth.Register(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewUser(u))
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	token, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": token, "token_type": "Bearer"})
}

// ---- hotels ----

type hotelRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Address     string  `json:"address"`
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	p, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	var req hotelRequest
	if !decode(w, r, &req) {
		return
	}
	hotel, err := h.Hotels.Create(r.Context(), p, app.HotelCreate{Name: req.Name, Description: req.Description, Address: req.Address})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewHotel(hotel))
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	p, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req hotelRequest
	if !decode(w, r, &req) {
		return
	}
	hotel, err := h.Hotels.Update(r.Context(), p, id, app.HotelCreate{Name: req.Name, Description: req.Description, Address: req.Address})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewHotel(hotel))
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	p, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Hotels.Delete(r.Context(), p, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	hotel, err := h.Hotels.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewHotel(hotel))
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.Hotels.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewHotels(hotels))
}

func (h *Handlers) listMyHotels(w http.ResponseWriter, r *http.Request) {
	p, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	hotels, err := h.Hotels.ListMine(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewHotels(hotels))
}

// ---- rooms ----

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	p, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	hotelID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Title         string  `json:"title"`
		Description   *string `json:"description"`
		PricePerNight float64 `json:"price_per_night"`
		Capacity      int     `json:"capacity"`
	}
	if !decode(w, r, &req) {
		return
	}
	room, err := h.Rooms.Create(r.Context(), p, hotelID, app.RoomCreate{
		Title: req.Title, Description: req.Description, PricePerNight: req.PricePerNight, Capacity: req.Capacity,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewRoom(room))
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
	p, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Title         *string  `json:"title"`
		Description   *string  `json:"description"`
		PricePerNight *float64 `json:"price_per_night"`
		Capacity      *int     `json:"capacity"`
	}
	if !decode(w, r, &req) {
		return
	}
	room, err := h.Rooms.Update(r.Context(), p, id, domain.RoomUpdate{
		Title: req.Title, Description: req.Description, PricePerNight: req.PricePerNight, Capacity: req.Capacity,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewRoom(room))
}

// patchAvailability flips the availability switch. An empty body toggles; a
// body with {"is_available": bool} sets it explicitly.
func (h *Handlers) patchAvailability(w http.ResponseWriter, r *http.Request) {
	p, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Available *bool `json:"is_available"`
	}
	// Tolerate an empty body: that is the toggle form.
	_ = json.NewDecoder(r.Body).Decode(&req)

	var (
		room domain.Room
		err  error
	)
	if req.Available != nil {
		room, err = h.Rooms.SetAvailability(r.Context(), p, id, *req.Available)
	} else {
		room, err = h.Rooms.ToggleAvailability(r.Context(), p, id)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewRoom(room))
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	p, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Rooms.Delete(r.Context(), p, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	room, err := h.Rooms.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewRoom(room))
}

func (h *Handlers) listHotelRooms(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := pathID(w, r)
	if !ok {
		return
	}
	rooms, err := h.Rooms.ListByHotel(r.Context(), hotelID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewRooms(rooms))
}

func (h *Handlers) listAvailableRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Rooms.ListAvailable(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewRooms(rooms))
}

func (h *Handlers) searchRooms(w http.ResponseWriter, r *http.Request) {
	checkIn, errIn := parseDate(r.URL.Query().Get("check_in"))
	checkOut, errOut := parseDate(r.URL.Query().Get("check_out"))
	if errIn != nil || errOut != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "check_in and check_out must be YYYY-MM-DD")
		return
	}
	rooms, err := h.Rooms.SearchAvailable(r.Context(), checkIn, checkOut)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewRooms(rooms))
}

// ---- bookings ----

// bookingOutcome labels the decision for metrics.
func bookingOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, domain.ErrPastDate):
		return "past_date"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	p, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	var req struct {
		RoomID   uuid.UUID `json:"room_id"`
		CheckIn  string    `json:"check_in_date"`
		CheckOut string    `json:"check_out_date"`
	}
	if !decode(w, r, &req) {
		return
	}
	checkIn, errIn := parseDate(req.CheckIn)
	checkOut, errOut := parseDate(req.CheckOut)
	if errIn != nil || errOut != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "check_in_date and check_out_date must be YYYY-MM-DD")
		return
	}

	b, err := h.Bookings.Create(r.Context(), p.ID, req.RoomID, checkIn, checkOut)
	observability.ObserveBooking("create", bookingOutcome(err))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewBooking(b))
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	p, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, err := h.Bookings.Cancel(r.Context(), p.ID, id)
	observability.ObserveBooking("cancel", bookingOutcome(err))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewBooking(b))
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	p, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, err := h.Bookings.Get(r.Context(), p.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewBooking(b))
}

func (h *Handlers) listMyBookings(w http.ResponseWriter, r *http.Request) {
	p, ok := mustPrincipal(w, r)
	if !ok {
		return
	}
	bs, err := h.Bookings.ListMine(r.Context(), p.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewBookings(bs))
}
