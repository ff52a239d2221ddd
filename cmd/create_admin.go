package cmd

import (
	"github.com/firewatch-geo/firewatch-services/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	adminUsername string
	adminPassword string
	adminEmail    string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Bootstrap an admin user",
	Long:  `Creates an admin user directly in the database. Self-registration only allows the manager and expert roles, so the first admin has to be created out of band.`,
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config, initialize the database and set up logging
		commonSetUp()
		defer geoDB.Close()

		if adminUsername == "" || adminPassword == "" {
			log.Fatal().Msg("--username and --password are required")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to hash password")
		}

		user := models.User{
			Username:     adminUsername,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
			Superuser:    true,
		}
		if adminEmail != "" {
			user.Email = &adminEmail
		}

		created, err := geoDB.CreateUser(user)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create admin user")
		}

		log.Info().Int64("id", created.ID).Str("username", created.Username).
			Msg("Admin user created")
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "username for the admin user")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password for the admin user")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "email for the admin user")
}
