// Package app wires the grades dashboard together and runs it.
//
// # Initialization Flow
//
//  1. Load configuration (config file, .env, GRADES_* variables)
//  2. Initialize the slog logger and OpenTelemetry
//  3. Build the data source and load the first dataset; a failed first
//     load aborts startup
//  4. Create the websocket hub, the refresher and the services
//  5. Set up middleware, handlers and the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication(ctx)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Graceful Shutdown
//
// Run stops on SIGINT or SIGTERM. The server, the hub and the refresher run
// in one errgroup; whichever ends first with an error cancels the others.
// Shutdown drains active requests within Server.ShutdownTimeout, closes the
// websocket clients and flushes the OpenTelemetry providers.
//
// The package never calls os.Exit; main decides the exit code.
package app
