// CLI tool to create a user with a bcrypt-hashed password, a profile with
// estimated targets, and the first weight log.
// Usage: go run ./cmd/create-user
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Poshangg/smartfit/internal/nutrition"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	reader := bufio.NewReader(os.Stdin)
	ask := func(label string) string {
		fmt.Print(label + ": ")
		s, _ := reader.ReadString('\n')
		return strings.TrimSpace(s)
	}

	username := ask("Username")
	email := ask("Email")
	password := ask("Password")
	weight := parsePositive(ask("Weight (kg)"))
	height := parsePositive(ask("Height (cm)"))
	goal := ask("Goal (e.g. Lose weight)")
	level := ask("Fitness level (" + strings.Join(nutrition.FitnessLevels, "/") + ")")
	if weight == nil || height == nil || goal == "" || !nutrition.ValidFitnessLevel(level) {
		fmt.Fprintln(os.Stderr, "Weight, height, goal and a valid fitness level are required")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}
	authToken := uuid.New().String()
	target, _ := nutrition.Estimate(nutrition.Inputs{WeightKg: weight, HeightCm: height, Goal: goal, FitnessLevel: level})

	tx, err := conn.Begin(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting transaction: %v\n", err)
		os.Exit(1)
	}
	defer tx.Rollback(ctx)

	var userID int
	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES (@username, @email, @password, @authToken) RETURNING id`,
		pgx.NamedArgs{"username": username, "email": email, "password": string(hash), "authToken": authToken},
	).Scan(&userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
		os.Exit(1)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (user_id, weight_kg, height_cm, goal, fitness_level,
			goal_calories, goal_protein, goal_carbs, goal_fat)
		 VALUES (@userID, @weightKg, @heightCm, @goal, @fitnessLevel,
			@calories, @protein, @carbs, @fat)`,
		pgx.NamedArgs{
			"userID": userID, "weightKg": *weight, "heightCm": *height, "goal": goal, "fitnessLevel": level,
			"calories": target.Calories, "protein": target.Protein, "carbs": target.Carbs, "fat": target.Fat,
		})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating profile: %v\n", err)
		os.Exit(1)
	}

	if _, err = tx.Exec(ctx, "INSERT INTO weight_logs (user_id, weight_kg) VALUES (@userID, @weightKg)",
		pgx.NamedArgs{"userID": userID, "weightKg": *weight}); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating weight log: %v\n", err)
		os.Exit(1)
	}

	if err := tx.Commit(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error committing: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:         %d\n", userID)
	fmt.Printf("  Username:   %s\n", username)
	fmt.Printf("  Auth Token: %s\n", authToken)
	fmt.Printf("  Targets:    %d kcal, %dg protein, %dg carbs, %dg fat\n", target.Calories, target.Protein, target.Carbs, target.Fat)
}

func parsePositive(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}
