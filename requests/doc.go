// Package requests is the client-side request layer for a remote JSON
// service.
//
// # Pipeline
//
// Every call goes through the same steps:
//
//   - BuildURL joins a path to the base URL and appends ordered query params
//   - Compose builds the headers and the JSON or form encoded body
//   - the HTTPDoer sends it
//   - Resolve decodes a 2xx response as JSON, attachment or text
//   - Classify turns anything else into a *StatusError
//
// DoAuthenticated puts a TokenProvider in front of the pipeline, and
// UnrollPages drives a page fetcher until the last page.
//
// # Usage
//
//	client, err := requests.NewClient("https://api.example.com", logger,
//		requests.WithTokenProvider(session.FileToken("/run/token")),
//		requests.WithSession(reloader),
//		requests.WithFileSink(download.NewDirSink("downloads", logger)),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	person, err := requests.Do[people.Person](ctx, client, requests.Request{
//		Method: requests.MethodGet,
//		Path:   "people/1",
//	})
//
// # Error Handling
//
// Failures come in three shapes:
//
//   - *ValidationError: a POST or PUT without a body, or a body that cannot be
//     form encoded; raised before anything is sent
//   - *ConnectionError: no response, or a 2xx body that could not be decoded
//   - *StatusError: a non-2xx response with Kind, Status and Message
//
// StatusError has predicates and works with errors.Is:
//
//	var statusErr *requests.StatusError
//	if errors.As(err, &statusErr) && statusErr.IsNotFound() {
//		// Handle missing resource
//	}
//	if errors.Is(err, requests.ErrUnauthorized) {
//		// The session was already told to reauthenticate
//	}
//
// Nothing is retried.
package requests
