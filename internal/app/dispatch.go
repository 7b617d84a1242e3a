package app

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/shape"
	"github.com/ayusman/mudra/internal/store"
)

// onGesture broadcasts a classified gesture and fires its bound action.
// Swipes arrive with the direction folded into the value, for example
// "swipe-left", so each direction can carry its own binding.
func (a *App) onGesture(value string, ev gesture.Event) {
	if !a.IsEnabled() {
		return
	}
	a.publish("gesture", ev)
	a.dispatch(store.TriggerGesture, value, ev)
}

// onPattern broadcasts a recognized shape and fires the action bound to
// the winning pattern.
func (a *App) onPattern(res *shape.Result) {
	if !a.IsEnabled() || res == nil || res.Pattern == nil {
		return
	}
	a.publish("pattern", res)
	a.dispatch(store.TriggerPattern, res.Pattern.ID, res)
}

// dispatch looks up the action bound to a trigger and executes its
// plugin asynchronously. An unbound or disabled trigger is a silent
// skip.
func (a *App) dispatch(kind, value string, payload interface{}) {
	if a.config.Store == nil {
		return
	}

	action, err := a.config.Store.Actions().GetByTrigger(kind, value)
	if err != nil {
		log.Printf("failed to look up action for %s/%s: %v", kind, value, err)
		return
	}
	if action == nil || !action.Enabled {
		return
	}

	plug, err := a.pluginMgr.Get(action.PluginName)
	if err != nil {
		log.Printf("action %s references unknown plugin %s", action.ID, action.PluginName)
		return
	}

	event, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to encode event for %s/%s: %v", kind, value, err)
		return
	}

	req := &plugin.Request{
		Action:  action.ActionName,
		Trigger: plugin.Trigger{Kind: kind, Value: value},
		Event:   event,
		Config:  action.Config,
	}

	go func() {
		resp, err := a.pluginExec.Execute(context.Background(), plug, req)
		if err != nil {
			log.Printf("plugin %s action %s failed: %v", action.PluginName, action.ActionName, err)
			return
		}
		if !resp.Success {
			log.Printf("plugin %s action %s reported error: %s", action.PluginName, action.ActionName, resp.Error)
			return
		}
		log.Printf("Executed %s.%s for %s/%s", action.PluginName, action.ActionName, kind, value)
	}()
}
