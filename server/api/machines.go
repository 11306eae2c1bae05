package api

import (
	"net/http"

	"github.com/dekarrin/flwarrior/server/result"
)

// HTTPGetAllMachines returns a HandlerFunc that retrieves all stored machines.
func (api API) HTTPGetAllMachines() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllMachines)
}

// GET /machines: get all machines.
func (api API) epGetAllMachines(req *http.Request) result.Result {
	machines, err := api.Backend.GetAllMachines(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]MachineModel, len(machines))
	for i := range machines {
		resp[i] = machineModel(machines[i])
	}

	return result.OK(resp, "got all %d machines", len(resp))
}

// HTTPCreateMachine returns a HandlerFunc that stores a new machine.
func (api API) HTTPCreateMachine() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateMachine)
}

// POST /machines: create a new machine.
func (api API) epCreateMachine(req *http.Request) result.Result {
	var body MachineModel
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	created, err := api.Backend.CreateMachine(req.Context(), body.Record)
	if err != nil {
		return serviceErr(err, "machine")
	}

	return result.Created(machineModel(created), "created machine %s (%q)", created.ID, created.Record.Name)
}

// HTTPGetMachine returns a HandlerFunc that gets one machine.
func (api API) HTTPGetMachine() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetMachine)
}

// GET /machines/{id}: get a machine.
func (api API) epGetMachine(req *http.Request) result.Result {
	id := requireIDParam(req)

	m, err := api.Backend.GetMachine(req.Context(), id)
	if err != nil {
		return serviceErr(err, "machine")
	}

	return result.OK(machineModel(m), "got machine %s", id)
}

// HTTPUpdateMachine returns a HandlerFunc that replaces one machine.
func (api API) HTTPUpdateMachine() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epUpdateMachine)
}

// PUT /machines/{id}: replace a machine.
func (api API) epUpdateMachine(req *http.Request) result.Result {
	id := requireIDParam(req)

	var body MachineModel
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	updated, err := api.Backend.UpdateMachine(req.Context(), id, body.Record)
	if err != nil {
		return serviceErr(err, "machine")
	}

	return result.OK(machineModel(updated), "updated machine %s", id)
}

// HTTPDeleteMachine returns a HandlerFunc that deletes one machine.
func (api API) HTTPDeleteMachine() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteMachine)
}

// DELETE /machines/{id}: delete a machine.
func (api API) epDeleteMachine(req *http.Request) result.Result {
	id := requireIDParam(req)

	if _, err := api.Backend.DeleteMachine(req.Context(), id); err != nil {
		return serviceErr(err, "machine")
	}

	return result.NoContent("deleted machine %s", id)
}

// HTTPDeterminizeMachine returns a HandlerFunc that gives a deterministic
// version of a machine. The result is not stored.
func (api API) HTTPDeterminizeMachine() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeterminizeMachine)
}

// POST /machines/{id}/determinize
func (api API) epDeterminizeMachine(req *http.Request) result.Result {
	id := requireIDParam(req)

	dfa, err := api.Backend.DeterminizeMachine(req.Context(), id)
	if err != nil {
		return serviceErr(err, "machine")
	}

	return result.OK(MachineModel{Record: dfa}, "determinized machine %s (%d states)", id, len(dfa.States))
}

// HTTPRunMachine returns a HandlerFunc that runs a machine over a word.
func (api API) HTTPRunMachine() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epRunMachine)
}

// POST /machines/{id}/run
func (api API) epRunMachine(req *http.Request) result.Result {
	id := requireIDParam(req)

	var body RunRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	res, err := api.Backend.RunMachine(req.Context(), id, body.Word)
	if err != nil {
		return serviceErr(err, "machine")
	}

	resp := RunModel{
		Word:     body.Word,
		Accepted: res.Accepted,
		Trace:    res.Trace,
	}
	return result.OK(resp, "ran machine %s (accepted: %t)", id, res.Accepted)
}

// HTTPUnionMachines returns a HandlerFunc that gives the union of two
// machines. The result is not stored.
func (api API) HTTPUnionMachines() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epUnionMachines)
}

// POST /machines/union
func (api API) epUnionMachines(req *http.Request) result.Result {
	var body UnionRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if body.First == "" || body.Second == "" {
		return result.BadRequest("first and second: both are required", "missing machine ID")
	}

	union, err := api.Backend.UnionMachines(req.Context(), body.First, body.Second)
	if err != nil {
		return serviceErr(err, "machine")
	}

	return result.OK(MachineModel{Record: union}, "union of machines %s and %s", body.First, body.Second)
}
