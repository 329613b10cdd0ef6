// Package wizard implements the finite-state conversation engine that
// assembles income, transfer and outcome records through a guided
// multi-step dialogue.
//
// The engine owns four cooperating pieces: the session store (current
// state tag, draft data, navigation history), the ephemeral message
// tracker (key prompts edited in place vs transient messages deleted in
// batches), the back-navigation controller (history pop plus inverse
// field clearing), and the transaction finalizer (confirm/reject of the
// accumulated draft). Storage and transport are consumed through small
// interfaces so the engine stays independent of the database driver and
// the chat platform.
package wizard
