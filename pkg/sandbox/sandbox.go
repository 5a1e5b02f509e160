// Package sandbox executes SQL on behalf of untrusted callers against an
// embedded SQLite database.
//
// Every statement is authorized while the engine compiles it: the policy
// sees each table, index, trigger, pragma and transaction reference and may
// deny it, which aborts compilation with a POLICY_VIOLATION error. Callers
// pass admin=true to bypass the policy for a single call; the elevation
// never outlives that call.
//
// Example usage:
//
//	db, err := sandbox.Open(sandbox.Config{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Close()
//
//	// Internal tables are created in admin mode
//	_, err = db.Exec("CREATE TABLE _cf_meta (k TEXT, v TEXT)", true, nil)
//
//	// Restricted callers cannot see them
//	_, err = db.Exec("SELECT * FROM _cf_meta", false, nil)
//	if sandbox.IsPolicyViolation(err) {
//		log.Println("denied")
//	}
//
//	stmt, err := db.Prepare("SELECT ? AS greeting", false)
//	res, err := stmt.Run([]values.Bind{values.Text("hello")})
package sandbox
