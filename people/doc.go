// Package people provides a client for the people endpoint of the remote
// service, built on the requests package.
//
// # Usage
//
//	rc, err := requests.NewClient("https://api.example.com", logger,
//		requests.WithTokenProvider(session.EnvToken("FETCHR_AUTH_TOKEN")),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	svc, err := people.NewClient(rc, logger, people.WithPageSize(50))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Fetch one person
//	luke, err := svc.GetPerson(ctx, "1")
//
//	// Fetch every page of the listing
//	everyone, err := svc.AllPeople(ctx)
//
// # Authentication
//
// GetPerson and GetPeople are public calls. ListPeople, AllPeople and
// ExportPeople go through requests.DoAuthenticated and carry the bearer
// token.
//
// # Pagination
//
// AllPeople walks pages sequentially from page 0 until the service marks a
// page as last. A service that never sets the last flag keeps it looping.
package people
