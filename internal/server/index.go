package server

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Autoseller</title>
<style>
body { font-family: sans-serif; background: #1e1e24; color: #eee; margin: 2em; }
.container.hidden { opacity: .4; }
hr { border-color: #444; }
button.on { background: #2e7d32; color: #fff; }
button.off { background: #c62828; color: #fff; }
.panel { margin-left: 1.5em; }
.panel h4 { margin: 10px 0; }
#notifications li { font-size: .9em; }
</style>
</head>
<body>
<h2>Autoseller <small id="bridge"></small></h2>
<div id="menu"></div>
<h3>Notifications</h3>
<ul id="notifications"></ul>
<script>
async function load() {
  const res = await fetch("/api/menu");
  const data = await res.json();
  document.getElementById("bridge").textContent = data.bridgeConnected ? "(game connected)" : "(waiting for game)";
  const root = document.getElementById("menu");
  root.innerHTML = "";
  for (const c of data.containers) {
    const div = document.createElement("div");
    div.className = "container" + (c.hidden ? " hidden" : "");
    for (const el of c.elements) {
      if (el.type === "separator") { div.appendChild(document.createElement("hr")); continue; }
      div.appendChild(toggle(el));
      if (el.panel) {
        const panel = document.createElement("div");
        panel.className = "panel";
        const title = document.createElement("h4");
        title.textContent = el.panel.title;
        panel.appendChild(title);
        for (const t of el.panel.toggles) { panel.appendChild(toggle(t)); }
        div.appendChild(panel);
      }
    }
    root.appendChild(div);
  }
}

function toggle(el) {
  const row = document.createElement("div");
  const btn = document.createElement("button");
  btn.className = el.enabled ? "on" : "off";
  btn.textContent = el.enabled ? "On" : "Off";
  btn.title = el.tooltip || "";
  btn.onclick = async () => { await fetch("/api/toggle?key=" + encodeURIComponent(el.key), {method: "POST"}); load(); };
  const label = document.createElement("span");
  label.textContent = " " + el.label;
  row.appendChild(btn);
  row.appendChild(label);
  return row;
}

const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = (msg) => {
  const m = JSON.parse(msg.data);
  if (m.type === "notification") {
    const li = document.createElement("li");
    li.textContent = new Date(m.payload.occurredAt).toLocaleTimeString() + " [" + m.payload.source + "] " + m.payload.message;
    document.getElementById("notifications").prepend(li);
  } else if (m.type === "sold") {
    const li = document.createElement("li");
    const items = Object.entries(m.payload.sold).map(([name, qty]) => qty + " " + name).join(", ");
    li.textContent = new Date().toLocaleTimeString() + " [" + m.payload.source + "] sold " + items;
    document.getElementById("notifications").prepend(li);
  }
  load();
};

load();
setInterval(load, 10000);
</script>
</body>
</html>
`
