/*
Package journal defines how chaos runs and their compensating actions
are named and located on durable storage.

Layout under the versions directory:

	<versionsDir>/
	  <epoch>-<run_uuid>/
	    <scenario_type>_<epoch>_<8-char-id>.json           pending
	    <scenario_type>_<epoch>_<8-char-id>.json.executed  done

The functions here are pure name/path computation plus directory
listing; writing artifacts belongs to the serialize package and
executing them to the engine package.
*/
package journal
