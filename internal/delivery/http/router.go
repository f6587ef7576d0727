package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"ensembleplanner/internal/delivery/http/controllers"
	"ensembleplanner/internal/delivery/http/middleware"
	"ensembleplanner/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// All event routes require a verified bearer token; role- and
// involvement-based authorization happens in the services.
func NewRouter(
	eventController *controllers.EventController,
	invitationController *controllers.InvitationController,
	participationController *controllers.ParticipationController,
	chatController *controllers.ChatController,
	contractController *controllers.ContractController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier)
	organizer := func(h http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleOrganizer)(h))
	}
	performer := func(h http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RolePerformer)(h))
	}

	// Events
	mux.HandleFunc("POST /events", organizer(eventController.CreateEvent))
	mux.HandleFunc("GET /events", organizer(eventController.ListMyEvents))
	mux.HandleFunc("GET /events/active", performer(eventController.ListActive))
	mux.HandleFunc("GET /events/archive", performer(eventController.ListArchive))
	mux.HandleFunc("GET /events/{eventID}", auth(eventController.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", organizer(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", organizer(eventController.DeleteEvent))

	// Invitations
	mux.HandleFunc("POST /events/{eventID}/invitations", organizer(invitationController.Invite))
	mux.HandleFunc("DELETE /events/{eventID}/invitations/{performerID}", organizer(invitationController.Cancel))

	// Participations
	mux.HandleFunc("POST /events/{eventID}/response", performer(participationController.Respond))
	mux.HandleFunc("DELETE /events/{eventID}/participants/{performerID}", organizer(participationController.Remove))
	mux.HandleFunc("PATCH /events/{eventID}/participants/{performerID}", organizer(participationController.Review))

	// Chat
	mux.HandleFunc("GET /events/{eventID}/messages", auth(chatController.ListMessages))
	mux.HandleFunc("POST /events/{eventID}/messages", auth(chatController.PostMessage))

	// Contracts
	mux.HandleFunc("POST /events/{eventID}/contract", performer(contractController.Issue))
	mux.HandleFunc("GET /events/{eventID}/contract", performer(contractController.GetOwn))
	mux.HandleFunc("GET /events/{eventID}/contracts", organizer(contractController.ListByEvent))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
