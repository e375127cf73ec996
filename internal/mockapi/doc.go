// Package mockapi implements an in-memory development backend for the
// servicepro client.
//
// HTTP API
//
//	POST /auth/login        {phone|email, password} -> {token, user}
//	POST /auth/logout       revoke the bearer token
//	GET  /user/profile      current user
//	POST /user/profile      multipart name, dob, address, photo
//	POST /user/kyc          JSON or multipart KYC details; status becomes pending
//	POST /user/training     {trainingDate, slot}; requires approved KYC
//	HEAD|GET /health        liveness
//
//	POST /admin/users/{id}/kyc       {status, remarks}
//	POST /admin/users/{id}/training  {status}
//
// Every response uses the envelope {"success", "message", "data"}. Client
// calls must carry device_id; a missing one is a 400. Tokens are HS256 JWTs
// with an exp claim; logout revokes the token id.
//
// All state is held in memory and lost on process exit.
package mockapi
