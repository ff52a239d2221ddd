package cmd

import (
	"fmt"
	"net/http"

	"github.com/firewatch-geo/firewatch-services/api/handlers"
	"github.com/firewatch-geo/firewatch-services/api/middleware"
	"github.com/firewatch-geo/firewatch-services/api/services"
	"github.com/firewatch-geo/firewatch-services/internal/authn"
	"github.com/firewatch-geo/firewatch-services/internal/events"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for handling API requests",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config, initialize the database and set up logging
		commonSetUp()
		defer geoDB.Close()

		codec, err := authn.NewTokenCodec(appCfg.JWT)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize token codec")
		}

		// Initialize event publisher. Audit events are best effort: without
		// a broker the server still runs.
		var publisher events.Notifier
		publisher, err = events.NewEventPublisher(appCfg.Pulsar.URL, appCfg.Pulsar.TopicProducer)
		if err != nil {
			log.Warn().Err(err).Msg("Event publisher unavailable, audit events disabled")
			publisher = events.NopNotifier{}
		}
		defer publisher.Close()

		// Create routes
		r := mux.NewRouter()

		service := &services.Service{
			Config:    appCfg,
			DB:        geoDB,
			Codec:     codec,
			Publisher: publisher,
		}

		// Register the routes
		api := r.PathPrefix(appCfg.BasePath).Subrouter()

		// Apply the middleware to the API routes
		api.Use(middleware.WithLogger)
		api.Use(middleware.Authenticate(geoDB, codec))

		// Account routes
		api.HandleFunc("/users/register", handlers.Register(service)).Methods(http.MethodPost)
		api.HandleFunc("/users/login", handlers.Login(service)).Methods(http.MethodPost)
		api.HandleFunc("/users/password/update", handlers.ChangePassword(service)).Methods(http.MethodPost)
		api.HandleFunc("/users/myprofile", handlers.MyProfile(service)).Methods(http.MethodGet)
		api.HandleFunc("/users/myprofile", handlers.UpdateProfile(service)).Methods(http.MethodPatch)
		api.HandleFunc("/users/users", handlers.ListUsers(service)).Methods(http.MethodGet)

		// Access group routes
		api.HandleFunc("/users/groups", handlers.ListGroups(service)).Methods(http.MethodGet)
		api.HandleFunc("/users/groups", handlers.CreateGroup(service)).Methods(http.MethodPost)
		api.HandleFunc("/users/groups/members/add", handlers.AddMember(service)).Methods(http.MethodPost)
		api.HandleFunc("/users/groups/{group-id}", handlers.UpdateGroup(service)).Methods(http.MethodPatch)
		api.HandleFunc("/users/groups/{group-id}", handlers.DeleteGroup(service)).Methods(http.MethodDelete)
		api.HandleFunc("/users/groups/{group-id}/members", handlers.ListMembers(service)).Methods(http.MethodGet)
		api.HandleFunc("/users/groups/{group-id}/members/{user-id}", handlers.RemoveMember(service)).Methods(http.MethodDelete)

		// Admin routes
		api.HandleFunc("/users/admin/users", handlers.AdminListUsers(service)).Methods(http.MethodGet)
		api.HandleFunc("/users/admin/users/create", handlers.AdminCreateUser(service)).Methods(http.MethodPost)
		api.HandleFunc("/users/admin/users/{user-id}", handlers.AdminDeleteUser(service)).Methods(http.MethodDelete)
		api.HandleFunc("/users/admin/stats", handlers.AdminStats(service)).Methods(http.MethodGet)

		// Catalog routes
		api.HandleFunc("/fire/catalog", handlers.GetCatalog(service)).Methods(http.MethodGet)
		api.HandleFunc("/fire/indexes", handlers.ListIndexLayers(service)).Methods(http.MethodGet)
		api.HandleFunc("/fire/satellite-images", handlers.ListSatelliteImages(service)).Methods(http.MethodGet)
		api.HandleFunc("/fire/vectors/fire-risk", handlers.ListFireRiskAreas(service)).Methods(http.MethodGet)
		api.HandleFunc("/fire/vectors/{kind}", handlers.ListVectorLayer(service)).Methods(http.MethodGet)

		// AOI routes
		api.HandleFunc("/fire/aoi", handlers.CreateAOI(service)).Methods(http.MethodPost)
		api.HandleFunc("/fire/aoi", handlers.ListAOIs(service)).Methods(http.MethodGet)
		api.HandleFunc("/fire/aoi/{aoi-id}", handlers.GetAOI(service)).Methods(http.MethodGet)

		log.Info().Msg(fmt.Sprintf("Server started at %s:%d", host, port))

		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", host, port),
			r); err != nil {

			log.Error().Err(err).Msg("could not start server")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&host, "host", "0.0.0.0", "host to run the server on")
	serveCmd.Flags().IntVar(&port, "port", 8080, "port to run the server on")
}
