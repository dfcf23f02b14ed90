package commlayout

// vertical gap above every message label
const MESSAGE_PRE_GAP = 10.

// room below a self message line for the loop back to its actor
const SELF_LOOP_HEIGHT = 30.

// extra view box height reserved above the diagram for its title
const TITLE_HEIGHT = 40.

const TITLE_Y = -25.

// min height of the label tab drawn in the corner of a loop
const LOOP_LABEL_HEIGHT = 20.

// messages attach this far to either side of an actor's center
const ACTIVATION_HALF_WIDTH = 1.

const BOX_STROKE = "rgba(0, 0, 0, 0.5)"
